package ports

import (
	"context"
	"time"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// ListTicketsFilter carries query parameters for listing tickets.
// OwnerEmail is enforced by the service layer for the client role.
type ListTicketsFilter struct {
	OwnerEmail string              // empty = no scoping (admin); non-empty = scoped to owner
	Status     domain.TicketStatus // optional: exact status match
	Statuses   []domain.TicketStatus
	// Statuses, when non-empty, is an `in`-list filter used by the sidebar
	// count queries. Status and Statuses are mutually exclusive.
}

// TicketPatch is the set of fields an admin edit may overwrite. All fields
// are written unconditionally; entering edit mode snapshots current values
// into the draft, so an unchanged field writes its old value back.
type TicketPatch struct {
	Title         string
	Location      string
	Severity      domain.Severity
	Status        domain.TicketStatus
	Notes         string
	TicketDetails string
	Quantity      string
	UpdatedAt     time.Time
}

// TicketRepository defines persistence operations for tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	// List returns tickets matching filter ordered by created_at descending.
	List(ctx context.Context, filter ListTicketsFilter) ([]*domain.Ticket, error)
	// Update applies a partial field write to one ticket.
	Update(ctx context.Context, id string, patch TicketPatch) error
	// SetUnread flips has_unread_messages. When marking unread, lastMessageAt
	// and lastMessageBy are written alongside; when clearing, only the flag
	// is touched.
	SetUnread(ctx context.Context, id string, unread bool, lastMessageAt time.Time, lastMessageBy string) error
	// Count returns a server-side count of tickets matching filter.
	Count(ctx context.Context, filter ListTicketsFilter) (int64, error)
}
