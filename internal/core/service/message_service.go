package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

const notificationPreviewLen = 100

type MessageService struct {
	tickets  ports.TicketRepository
	messages ports.MessageRepository
	notifier Notifier
	changes  ports.ChangePublisher
	logger   zerolog.Logger
}

func NewMessageService(
	tickets ports.TicketRepository,
	messages ports.MessageRepository,
	notifier Notifier,
	changes ports.ChangePublisher,
	logger zerolog.Logger,
) *MessageService {
	return &MessageService{
		tickets:  tickets,
		messages: messages,
		notifier: notifier,
		changes:  changes,
		logger:   logger,
	}
}

// Post appends a message to the ticket's thread, marks the parent unread,
// and fans out a message notification carrying a truncated preview.
// Whitespace-only content produces no writes of any kind.
func (s *MessageService) Post(ctx context.Context, actor ports.Session, ticketID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyMessage
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}
	if !actor.IsAdmin && ticket.OwnerEmail != actor.Email {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	message := &domain.Message{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Content:   content,
		Sender:    actor.Email,
		IsAdmin:   actor.IsAdmin,
		Timestamp: now,
	}

	if err := s.messages.Append(ctx, message); err != nil {
		s.logger.Error().Err(err).Str("ticket_id", ticketID).Msg("failed to append message")
		return nil, fmt.Errorf("post message: %w", err)
	}
	s.changes.Publish(ports.ChangeEvent{Collection: ports.ChangeMessages, TicketID: ticketID})

	// The unread flag ride-along is a separate document write; a failure
	// here leaves the message in place, so log and keep going.
	if err := s.tickets.SetUnread(ctx, ticketID, true, now, actor.Email); err != nil {
		s.logger.Warn().Err(err).Str("ticket_id", ticketID).Msg("failed to set unread flag")
	} else {
		s.changes.Publish(ports.ChangeEvent{Collection: ports.ChangeTickets, TicketID: ticketID})
	}

	s.notifier.Enqueue(domain.Notification{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Title:     fmt.Sprintf("New Message in Ticket #%s", ticketID),
		Message:   fmt.Sprintf("%s sent: %s", actor.Email, previewOf(content)),
		Read:      false,
		CreatedAt: now,
		Type:      domain.NotificationMessage,
		MessageID: message.ID,
	})

	s.logger.Info().
		Str("ticket_id", ticketID).
		Str("sender", actor.Email).
		Bool("is_admin", actor.IsAdmin).
		Msg("message posted")

	return message, nil
}

// Thread returns the ticket's messages ordered by timestamp ascending.
func (s *MessageService) Thread(ctx context.Context, actor ports.Session, ticketID string) ([]*domain.Message, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("thread: %w", err)
	}
	if !actor.IsAdmin && ticket.OwnerEmail != actor.Email {
		return nil, domain.ErrForbidden
	}
	messages, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("thread: %w", err)
	}
	return messages, nil
}

// previewOf truncates content to the first notificationPreviewLen runes for
// the notification body, appending an ellipsis marker when cut. Counting
// runes rather than bytes keeps multi-byte content valid UTF-8.
func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) <= notificationPreviewLen {
		return content
	}
	return string(runes[:notificationPreviewLen]) + "..."
}
