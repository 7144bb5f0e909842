package domain

import (
	"errors"
	"time"
)

// Severity is the urgency level assigned to a ticket at creation time.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// TicketStatus represents the lifecycle stage of a support ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "Open"
	StatusInProgress TicketStatus = "In Progress"
	StatusResolved   TicketStatus = "Resolved"
	StatusClosed     TicketStatus = "Closed"
)

var ErrTicketNotFound = errors.New("ticket not found")
var ErrNotificationNotFound = errors.New("notification not found")
var ErrInvalidSeverity = errors.New("invalid severity")
var ErrInvalidStatus = errors.New("invalid status")
var ErrEmptyMessage = errors.New("message content is empty")
var ErrForbidden = errors.New("access forbidden")

// Valid reports whether s is one of the four enumerated severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Valid reports whether s is one of the four enumerated statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Ticket is the core aggregate root. Owner fields are always populated from
// the authenticated session at the single write boundary, so client-scoped
// queries can rely on them.
type Ticket struct {
	ID                string       `json:"id" bson:"_id,omitempty"`
	Title             string       `json:"title" bson:"title"`
	Sender            string       `json:"sender" bson:"sender"`
	Company           string       `json:"company" bson:"company"`
	Location          string       `json:"location" bson:"location"`
	Date              string       `json:"date" bson:"date"`
	Time              string       `json:"time" bson:"time"`
	Severity          Severity     `json:"severity" bson:"severity"`
	Status            TicketStatus `json:"status" bson:"status"`
	Quantity          string       `json:"quantity" bson:"quantity"`
	TicketDetails     string       `json:"ticket_details" bson:"ticket_details"`
	Notes             string       `json:"notes" bson:"notes"`
	OwnerEmail        string       `json:"owner_email" bson:"owner_email"`
	OwnerID           string       `json:"owner_id" bson:"owner_id"`
	CreatedAt         time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	HasUnreadMessages bool         `json:"has_unread_messages" bson:"has_unread_messages"`
	LastMessageAt     time.Time    `json:"last_message_at,omitempty" bson:"last_message_at,omitempty"`
	LastMessageBy     string       `json:"last_message_by,omitempty" bson:"last_message_by,omitempty"`
}
