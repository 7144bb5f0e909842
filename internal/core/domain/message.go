package domain

import "time"

// Message is one entry in a ticket's append-only conversation thread.
// Messages are never mutated or deleted; readers order them by timestamp
// ascending.
type Message struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	TicketID  string    `json:"ticket_id" bson:"ticket_id"`
	Content   string    `json:"content" bson:"content"`
	Sender    string    `json:"sender" bson:"sender"`
	IsAdmin   bool      `json:"is_admin" bson:"is_admin"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
