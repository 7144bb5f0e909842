package ports

// Change collections. Every committed write publishes one ChangeEvent so
// live subscriptions can recompute their result sets.
const (
	ChangeTickets       = "tickets"
	ChangeMessages      = "messages"
	ChangeNotifications = "notifications"
)

// ChangeEvent announces that a collection's content changed. TicketID is
// set for ticket and message changes so thread subscriptions can skip
// recomputes for unrelated tickets.
type ChangeEvent struct {
	Collection string `json:"collection"`
	TicketID   string `json:"ticket_id,omitempty"`
}

// ChangePublisher is the write-side half of the change feed.
type ChangePublisher interface {
	Publish(event ChangeEvent)
}
