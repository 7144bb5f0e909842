package ports

import (
	"context"
	"time"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// Session identifies the authenticated actor for a request. It is computed
// once per request from the verified token claims and passed down; handlers
// and services never re-derive identity ad hoc.
type Session struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// CreateTicketInput carries the entry-form fields. Sender, owner e-mail,
// owner id, and the creation date are derived from the session, never taken
// from the request.
type CreateTicketInput struct {
	Title         string
	Location      string
	Time          string
	Severity      domain.Severity
	Quantity      string
	Notes         string
	TicketDetails string
}

// UpdateTicketInput is the admin edit draft: every editable field is
// written on save.
type UpdateTicketInput struct {
	Title         string
	Location      string
	Severity      domain.Severity
	Status        domain.TicketStatus
	Notes         string
	TicketDetails string
	Quantity      string
}

// ListTicketsInput selects the list view: an empty StatusFilter means the
// default view (everything except Resolved); a non-empty filter shows only
// that status.
type ListTicketsInput struct {
	StatusFilter domain.TicketStatus
}

// TicketDetail bundles a ticket with its resolved sender company and the
// conversation thread, as shown by the detail panel.
type TicketDetail struct {
	Ticket        *domain.Ticket
	SenderCompany string
	Messages      []*domain.Message
}

// StatusCounts is the sidebar tally for the admin context.
type StatusCounts struct {
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}

// OwnerCounts is the two-bucket tally for the client context.
type OwnerCounts struct {
	Current int64 `json:"current"` // Open + In Progress
	Past    int64 `json:"past"`    // Resolved + Closed
}

// ReportSummary aggregates the dashboard figures.
type ReportSummary struct {
	Open             int64 `json:"open"`
	Resolved7d       int64 `json:"resolved_7d"`
	HighCriticalOpen int64 `json:"high_critical_open"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// TicketService defines use-case operations for tickets.
type TicketService interface {
	Create(ctx context.Context, actor Session, input CreateTicketInput) (*domain.Ticket, error)
	// Get returns the detail view and clears the ticket's unread flag as a
	// side effect, regardless of who the viewer is.
	Get(ctx context.Context, actor Session, id string) (*TicketDetail, error)
	List(ctx context.Context, actor Session, input ListTicketsInput) ([]*domain.Ticket, error)
	// ListAll returns the unfiltered ticket set visible to actor, used by
	// the export actions which ignore the active list filter.
	ListAll(ctx context.Context, actor Session) ([]*domain.Ticket, error)
	Update(ctx context.Context, actor Session, id string, input UpdateTicketInput) (*domain.Ticket, error)
	Counts(ctx context.Context, actor Session) (*StatusCounts, error)
	CountsForOwner(ctx context.Context, actor Session) (*OwnerCounts, error)
	Summary(ctx context.Context, actor Session) (*ReportSummary, error)
}
