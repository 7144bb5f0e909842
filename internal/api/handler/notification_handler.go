package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arabemerge/helpdesk/internal/api/metrics"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

type NotificationHandler struct {
	notificationService ports.NotificationService
}

func NewNotificationHandler(notificationService ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns every unread notification, newest first. The feed is shared:
// all signed-in viewers see the same banners until someone dismisses them.
//
// @Summary      Unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   notificationResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	notifications, err := h.notificationService.Unread(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, out)
}

// Dismiss marks one notification as read. Repeating the call is harmless.
//
// @Summary      Dismiss a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Notification id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/notifications/{id}/dismiss [post]
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	if err := h.notificationService.Dismiss(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.NotificationsDismissedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}
