package ports

import (
	"context"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// NotificationService exposes the banner feed.
type NotificationService interface {
	// Unread returns every read=false notification, newest first. The feed
	// is deliberately system-wide: every signed-in viewer sees every unread
	// notification.
	Unread(ctx context.Context) ([]*domain.Notification, error)
	// Dismiss sets read=true on one notification. Idempotent.
	Dismiss(ctx context.Context, id string) error
}
