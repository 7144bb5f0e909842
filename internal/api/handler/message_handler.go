package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arabemerge/helpdesk/internal/api/metrics"
	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

type MessageHandler struct {
	messageService ports.MessageService
}

func NewMessageHandler(messageService ports.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Post appends a message to a ticket's thread.
//
// @Summary      Post a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Ticket id"
// @Param        body  body      postMessageRequest  true  "Message content"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tickets/{id}/messages [post]
func (h *MessageHandler) Post(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	message, err := h.messageService.Post(c.Request().Context(), session, c.Param("id"), req.Content)
	if err != nil {
		return err
	}

	metrics.MessagesPostedTotal.WithLabelValues(roleLabel(session)).Inc()
	return c.JSON(http.StatusCreated, toMessageResponse(message))
}

// Thread returns a ticket's messages, oldest first.
//
// @Summary      Ticket thread
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket id"
// @Success      200  {array}   messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tickets/{id}/messages [get]
func (h *MessageHandler) Thread(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	messages, err := h.messageService.Thread(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return err
	}

	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}

func roleLabel(s ports.Session) string {
	if s.IsAdmin {
		return domain.RoleAdmin
	}
	return domain.RoleClient
}
