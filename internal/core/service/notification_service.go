package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

type NotificationService struct {
	repo    ports.NotificationRepository
	changes ports.ChangePublisher
	logger  zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, changes ports.ChangePublisher, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, changes: changes, logger: logger}
}

// Unread returns every read=false notification, newest first.
func (s *NotificationService) Unread(ctx context.Context) ([]*domain.Notification, error) {
	notifications, err := s.repo.ListUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Dismiss sets read=true. Dismissing an already-read notification succeeds
// and changes nothing.
func (s *NotificationService) Dismiss(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("dismiss notification: %w", err)
	}
	s.changes.Publish(ports.ChangeEvent{Collection: ports.ChangeNotifications})
	return nil
}

// Record persists a fanned-out notification. Called by the dispatcher
// workers, not by handlers.
func (s *NotificationService) Record(ctx context.Context, n domain.Notification) error {
	if err := s.repo.Create(ctx, &n); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	s.changes.Publish(ports.ChangeEvent{Collection: ports.ChangeNotifications, TicketID: n.TicketID})
	s.logger.Debug().
		Str("notification_id", n.ID).
		Str("ticket_id", n.TicketID).
		Str("type", string(n.Type)).
		Msg("notification recorded")
	return nil
}
