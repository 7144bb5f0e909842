package ports

import (
	"context"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// MessageService handles a ticket's conversation thread.
type MessageService interface {
	// Post appends a non-empty message, marks the parent ticket unread, and
	// fans out a message notification. Whitespace-only content is rejected
	// with domain.ErrEmptyMessage and produces no writes at all.
	Post(ctx context.Context, actor Session, ticketID, content string) (*domain.Message, error)
	// Thread returns the ticket's messages ordered by timestamp ascending.
	Thread(ctx context.Context, actor Session, ticketID string) ([]*domain.Message, error)
}
