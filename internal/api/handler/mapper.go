package handler

import (
	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:                t.ID,
		Title:             t.Title,
		Sender:            t.Sender,
		Company:           t.Company,
		Location:          t.Location,
		Date:              t.Date,
		Time:              t.Time,
		Severity:          string(t.Severity),
		Status:            string(t.Status),
		Quantity:          t.Quantity,
		TicketDetails:     t.TicketDetails,
		Notes:             t.Notes,
		OwnerEmail:        t.OwnerEmail,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		HasUnreadMessages: t.HasUnreadMessages,
		LastMessageAt:     t.LastMessageAt,
		LastMessageBy:     t.LastMessageBy,
	}
}

func toTicketListResponse(tickets []*domain.Ticket) listTicketsResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	return listTicketsResponse{Data: out, Total: len(out)}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		TicketID:  m.TicketID,
		Content:   m.Content,
		Sender:    m.Sender,
		IsAdmin:   m.IsAdmin,
		Timestamp: m.Timestamp,
	}
}

func toTicketDetailResponse(d *ports.TicketDetail) ticketDetailResponse {
	messages := make([]messageResponse, 0, len(d.Messages))
	for _, m := range d.Messages {
		messages = append(messages, toMessageResponse(m))
	}
	return ticketDetailResponse{
		Ticket:        toTicketResponse(d.Ticket),
		SenderCompany: d.SenderCompany,
		Messages:      messages,
	}
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		TicketID:  n.TicketID,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		Type:      string(n.Type),
		MessageID: n.MessageID,
	}
}
