package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createTicketRequest struct {
	Title         string `json:"title"          validate:"required"`
	Location      string `json:"location"       validate:"required"`
	Time          string `json:"time"           validate:"required"`
	Severity      string `json:"severity"       validate:"omitempty,oneof=Low Medium High Critical"`
	Quantity      string `json:"quantity"`
	Notes         string `json:"notes"`
	TicketDetails string `json:"ticket_details"`
}

type updateTicketRequest struct {
	Title         string `json:"title"          validate:"required"`
	Location      string `json:"location"       validate:"required"`
	Severity      string `json:"severity"       validate:"required,oneof=Low Medium High Critical"`
	Status        string `json:"status"         validate:"required,oneof=Open 'In Progress' Resolved Closed"`
	Notes         string `json:"notes"`
	TicketDetails string `json:"ticket_details"`
	Quantity      string `json:"quantity"`
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// --- Response types ---
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type ticketResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Sender            string    `json:"sender"`
	Company           string    `json:"company"`
	Location          string    `json:"location"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	Severity          string    `json:"severity"`
	Status            string    `json:"status"`
	Quantity          string    `json:"quantity"`
	TicketDetails     string    `json:"ticket_details"`
	Notes             string    `json:"notes"`
	OwnerEmail        string    `json:"owner_email"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
	HasUnreadMessages bool      `json:"has_unread_messages"`
	LastMessageAt     time.Time `json:"last_message_at,omitempty"`
	LastMessageBy     string    `json:"last_message_by,omitempty"`
}

type listTicketsResponse struct {
	Data  []ticketResponse `json:"data"`
	Total int              `json:"total"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	IsAdmin   bool      `json:"is_admin"`
	Timestamp time.Time `json:"timestamp"`
}

type ticketDetailResponse struct {
	Ticket        ticketResponse    `json:"ticket"`
	SenderCompany string            `json:"sender_company"`
	Messages      []messageResponse `json:"messages"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	Type      string    `json:"type"`
	MessageID string    `json:"message_id,omitempty"`
}
