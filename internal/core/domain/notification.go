package domain

import "time"

// NotificationType distinguishes ticket-creation alerts from message alerts.
type NotificationType string

const (
	NotificationTicket  NotificationType = "ticket"
	NotificationMessage NotificationType = "message"
)

// Notification is a transient, dismissible alert derived from ticket or
// message activity. The only mutation it ever sees is read=true.
type Notification struct {
	ID        string           `json:"id" bson:"_id,omitempty"`
	TicketID  string           `json:"ticket_id" bson:"ticket_id"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	Read      bool             `json:"read" bson:"read"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	Type      NotificationType `json:"type" bson:"type"`
	MessageID string           `json:"message_id,omitempty" bson:"message_id,omitempty"`
}
