package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

// CompanyCache abstracts the sender→company lookup cache (Redis).
type CompanyCache interface {
	Get(ctx context.Context, email string) (company string, ok bool, err error)
	Set(ctx context.Context, email, company string) error
}

// Notifier accepts notifications for asynchronous, retried persistence.
// The ticket write and its companion notification are not transactional, so
// the notification leg is handed off instead of written inline.
type Notifier interface {
	Enqueue(n domain.Notification)
}

type TicketService struct {
	tickets  ports.TicketRepository
	users    ports.UserRepository
	messages ports.MessageRepository
	cache    CompanyCache
	notifier Notifier
	changes  ports.ChangePublisher
	logger   zerolog.Logger
}

func NewTicketService(
	tickets ports.TicketRepository,
	users ports.UserRepository,
	messages ports.MessageRepository,
	cache CompanyCache,
	notifier Notifier,
	changes ports.ChangePublisher,
	logger zerolog.Logger,
) *TicketService {
	return &TicketService{
		tickets:  tickets,
		users:    users,
		messages: messages,
		cache:    cache,
		notifier: notifier,
		changes:  changes,
		logger:   logger,
	}
}

// Create writes a new ticket. This is the single write boundary for ticket
// creation: sender, owner e-mail, owner id, status, and timestamps are
// assigned here from the session so every reader can rely on a complete
// record.
func (s *TicketService) Create(ctx context.Context, actor ports.Session, input ports.CreateTicketInput) (*domain.Ticket, error) {
	severity := input.Severity
	if severity == "" {
		severity = domain.SeverityLow
	}
	if !severity.Valid() {
		return nil, fmt.Errorf("create ticket: %w (%s)", domain.ErrInvalidSeverity, severity)
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Sender:        actor.Email,
		Company:       s.resolveCompany(ctx, actor.Email),
		Location:      input.Location,
		Date:          now.Format("2006-01-02"),
		Time:          input.Time,
		Severity:      severity,
		Status:        domain.StatusOpen,
		Quantity:      input.Quantity,
		TicketDetails: input.TicketDetails,
		Notes:         input.Notes,
		OwnerEmail:    actor.Email,
		OwnerID:       actor.UserID,
		CreatedAt:     now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error().Err(err).Str("sender", actor.Email).Msg("failed to create ticket")
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	s.changes.Publish(ports.ChangeEvent{Collection: ports.ChangeTickets, TicketID: ticket.ID})

	s.notifier.Enqueue(domain.Notification{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		Title:     "New Ticket: " + ticket.Title,
		Message:   fmt.Sprintf("%s opened %q with severity %s", ticket.Sender, ticket.Title, ticket.Severity),
		Read:      false,
		CreatedAt: now,
		Type:      domain.NotificationTicket,
	})

	s.logger.Info().
		Str("ticket_id", ticket.ID).
		Str("sender", ticket.Sender).
		Str("severity", string(ticket.Severity)).
		Msg("ticket created")

	return ticket, nil
}

// Get returns the detail view. Opening a ticket clears its unread flag no
// matter who the viewer is; an admin opening a client's ticket clears the
// client's "new message" marker too.
func (s *TicketService) Get(ctx context.Context, actor ports.Session, id string) (*ports.TicketDetail, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if !actor.IsAdmin && ticket.OwnerEmail != actor.Email {
		return nil, domain.ErrForbidden
	}

	if ticket.HasUnreadMessages {
		if err := s.tickets.SetUnread(ctx, id, false, time.Time{}, ""); err != nil {
			s.logger.Warn().Err(err).Str("ticket_id", id).Msg("failed to clear unread flag")
		} else {
			ticket.HasUnreadMessages = false
			s.changes.Publish(ports.ChangeEvent{Collection: ports.ChangeTickets, TicketID: id})
		}
	}

	messages, err := s.messages.ListByTicket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: list messages: %w", err)
	}

	return &ports.TicketDetail{
		Ticket:        ticket,
		SenderCompany: s.resolveCompany(ctx, ticket.Sender),
		Messages:      messages,
	}, nil
}

// List returns the filtered list view. Admins see every ticket; clients are
// scoped to their own. The status filter itself is a pure function over the
// snapshot so the SSE stream can reuse it unchanged.
func (s *TicketService) List(ctx context.Context, actor ports.Session, input ports.ListTicketsInput) ([]*domain.Ticket, error) {
	if input.StatusFilter != "" && !input.StatusFilter.Valid() {
		return nil, fmt.Errorf("list tickets: %w (%s)", domain.ErrInvalidStatus, input.StatusFilter)
	}
	tickets, err := s.listVisible(ctx, actor)
	if err != nil {
		return nil, err
	}
	return FilterByStatus(tickets, input.StatusFilter), nil
}

// ListAll returns the unfiltered visible ticket set. The export actions use
// this: the report always serializes the full set, not the filtered view.
func (s *TicketService) ListAll(ctx context.Context, actor ports.Session) ([]*domain.Ticket, error) {
	return s.listVisible(ctx, actor)
}

func (s *TicketService) listVisible(ctx context.Context, actor ports.Session) ([]*domain.Ticket, error) {
	filter := ports.ListTicketsFilter{}
	if !actor.IsAdmin {
		filter.OwnerEmail = actor.Email
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// FilterByStatus applies the list view's status filter: with no active
// filter, Resolved tickets are hidden; with a filter, only tickets whose
// status equals it are shown.
func FilterByStatus(tickets []*domain.Ticket, filter domain.TicketStatus) []*domain.Ticket {
	out := make([]*domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if filter == "" {
			if t.Status != domain.StatusResolved {
				out = append(out, t)
			}
			continue
		}
		if t.Status == filter {
			out = append(out, t)
		}
	}
	return out
}

// Update saves an admin's edit draft. Every editable field is written, plus
// an updated-at timestamp. Non-admins are rejected before any read.
func (s *TicketService) Update(ctx context.Context, actor ports.Session, id string, input ports.UpdateTicketInput) (*domain.Ticket, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	if !input.Severity.Valid() {
		return nil, fmt.Errorf("update ticket: %w (%s)", domain.ErrInvalidSeverity, input.Severity)
	}
	if !input.Status.Valid() {
		return nil, fmt.Errorf("update ticket: %w (%s)", domain.ErrInvalidStatus, input.Status)
	}

	patch := ports.TicketPatch{
		Title:         input.Title,
		Location:      input.Location,
		Severity:      input.Severity,
		Status:        input.Status,
		Notes:         input.Notes,
		TicketDetails: input.TicketDetails,
		Quantity:      input.Quantity,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.tickets.Update(ctx, id, patch); err != nil {
		s.logger.Error().Err(err).Str("ticket_id", id).Msg("failed to update ticket")
		return nil, fmt.Errorf("update ticket: %w", err)
	}

	s.changes.Publish(ports.ChangeEvent{Collection: ports.ChangeTickets, TicketID: id})

	updated, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update ticket: reload: %w", err)
	}

	s.logger.Info().
		Str("ticket_id", id).
		Str("status", string(updated.Status)).
		Str("editor", actor.Email).
		Msg("ticket updated")

	return updated, nil
}

// Counts tallies tickets per status for the admin sidebar.
func (s *TicketService) Counts(ctx context.Context, actor ports.Session) (*ports.StatusCounts, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}

	counts := &ports.StatusCounts{}
	for _, pair := range []struct {
		status domain.TicketStatus
		dst    *int64
	}{
		{domain.StatusOpen, &counts.Open},
		{domain.StatusInProgress, &counts.InProgress},
		{domain.StatusResolved, &counts.Resolved},
		{domain.StatusClosed, &counts.Closed},
	} {
		n, err := s.tickets.Count(ctx, ports.ListTicketsFilter{Status: pair.status})
		if err != nil {
			return nil, fmt.Errorf("count tickets: %w", err)
		}
		*pair.dst = n
	}
	return counts, nil
}

// CountsForOwner returns the client sidebar's two buckets, scoped to the
// actor's own tickets via server-side `in` count queries.
func (s *TicketService) CountsForOwner(ctx context.Context, actor ports.Session) (*ports.OwnerCounts, error) {
	current, err := s.tickets.Count(ctx, ports.ListTicketsFilter{
		OwnerEmail: actor.Email,
		Statuses:   []domain.TicketStatus{domain.StatusOpen, domain.StatusInProgress},
	})
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	past, err := s.tickets.Count(ctx, ports.ListTicketsFilter{
		OwnerEmail: actor.Email,
		Statuses:   []domain.TicketStatus{domain.StatusResolved, domain.StatusClosed},
	})
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	return &ports.OwnerCounts{Current: current, Past: past}, nil
}

// Summary computes the dashboard figures over the full snapshot.
func (s *TicketService) Summary(ctx context.Context, actor ports.Session) (*ports.ReportSummary, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	tickets, err := s.tickets.List(ctx, ports.ListTicketsFilter{})
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	now := time.Now().UTC()
	summary := &ports.ReportSummary{GeneratedAt: now}
	for _, t := range tickets {
		closed := t.Status == domain.StatusResolved || t.Status == domain.StatusClosed
		if !closed {
			summary.Open++
			if t.Severity == domain.SeverityHigh || t.Severity == domain.SeverityCritical {
				summary.HighCriticalOpen++
			}
			continue
		}
		updated := t.UpdatedAt
		if updated.IsZero() {
			updated = t.CreatedAt
		}
		if now.Sub(updated) <= 7*24*time.Hour {
			summary.Resolved7d++
		}
	}
	return summary, nil
}

// resolveCompany looks up the company recorded on the user profile for
// email, consulting the cache first. Lookup failures degrade to an empty
// company rather than failing the caller.
func (s *TicketService) resolveCompany(ctx context.Context, email string) string {
	if company, ok, err := s.cache.Get(ctx, email); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("company cache read failed")
	} else if ok {
		return company
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err != domain.ErrUserNotFound {
			s.logger.Warn().Err(err).Str("email", email).Msg("company lookup failed")
		}
		return ""
	}
	if setErr := s.cache.Set(ctx, email, user.Company); setErr != nil {
		s.logger.Warn().Err(setErr).Str("email", email).Msg("company cache write failed")
	}
	return user.Company
}
