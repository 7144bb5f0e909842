package ports

import (
	"context"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// MessageRepository persists a ticket's conversation thread. The thread is
// append-only: there is no update or delete operation.
type MessageRepository interface {
	Append(ctx context.Context, m *domain.Message) error
	// ListByTicket returns the thread ordered by timestamp ascending.
	ListByTicket(ctx context.Context, ticketID string) ([]*domain.Message, error)
}
