package ports

import (
	"context"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// NotificationRepository persists cross-cutting alerts. Notifications are
// never deleted; the only mutation is the read flag.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListUnread returns all read=false notifications ordered by created_at
	// descending, system-wide.
	ListUnread(ctx context.Context) ([]*domain.Notification, error)
	// MarkRead sets read=true. Marking an already-read notification is a
	// no-op, not an error.
	MarkRead(ctx context.Context, id string) error
}
