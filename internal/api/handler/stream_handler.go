package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arabemerge/helpdesk/internal/api/metrics"
	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
	"github.com/arabemerge/helpdesk/internal/realtime"
)

// pingInterval keeps intermediaries from reaping idle SSE connections.
const pingInterval = 30 * time.Second

// StreamHandler exposes the live queries over Server-Sent Events. Each
// connection holds one hub subscription; the client disconnecting is the
// only cancellation signal.
type StreamHandler struct {
	hub                 *realtime.Hub
	ticketService       ports.TicketService
	messageService      ports.MessageService
	notificationService ports.NotificationService
	log                 zerolog.Logger
}

func NewStreamHandler(
	hub *realtime.Hub,
	ticketService ports.TicketService,
	messageService ports.MessageService,
	notificationService ports.NotificationService,
	log zerolog.Logger,
) *StreamHandler {
	return &StreamHandler{
		hub:                 hub,
		ticketService:       ticketService,
		messageService:      messageService,
		notificationService: notificationService,
		log:                 log,
	}
}

// Tickets streams list snapshots for the viewer's (optionally filtered)
// ticket list.
//
// @Summary      Live ticket list stream
// @Tags         streams
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        status  query  string  false  "Status filter"  Enums(Open, In Progress, Resolved, Closed)
// @Success      200  {string}  string  "SSE snapshot frames"
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/stream/tickets [get]
func (h *StreamHandler) Tickets(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	status := domain.TicketStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown status: " + string(status)})
	}

	query := realtime.Query{
		Collection: ports.ChangeTickets,
		Run: func(ctx0 context.Context) (any, error) {
			tickets, err := h.ticketService.List(ctx0, session, ports.ListTicketsInput{StatusFilter: status})
			if err != nil {
				return nil, err
			}
			return toTicketListResponse(tickets), nil
		},
	}
	return h.stream(c, query)
}

// TicketMessages streams thread snapshots for one ticket.
//
// @Summary      Live ticket thread stream
// @Tags         streams
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id  path  string  true  "Ticket id"
// @Success      200  {string}  string  "SSE snapshot frames"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/stream/tickets/{id}/messages [get]
func (h *StreamHandler) TicketMessages(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	ticketID := c.Param("id")

	// Authorization happens inside Thread; run it once up front so a
	// forbidden or missing ticket fails the request instead of producing a
	// silent stream that never emits.
	if _, err := h.messageService.Thread(c.Request().Context(), session, ticketID); err != nil {
		return err
	}

	query := realtime.Query{
		Collection: ports.ChangeMessages,
		TicketID:   ticketID,
		Run: func(ctx0 context.Context) (any, error) {
			messages, err := h.messageService.Thread(ctx0, session, ticketID)
			if err != nil {
				return nil, err
			}
			out := make([]messageResponse, 0, len(messages))
			for _, m := range messages {
				out = append(out, toMessageResponse(m))
			}
			return out, nil
		},
	}
	return h.stream(c, query)
}

// Notifications streams unread-notification snapshots.
//
// @Summary      Live notification stream
// @Tags         streams
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string  "SSE snapshot frames"
// @Failure      401  {object}  errorResponse
// @Router       /v1/stream/notifications [get]
func (h *StreamHandler) Notifications(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	query := realtime.Query{
		Collection: ports.ChangeNotifications,
		Run: func(ctx0 context.Context) (any, error) {
			notifications, err := h.notificationService.Unread(ctx0)
			if err != nil {
				return nil, err
			}
			out := make([]notificationResponse, 0, len(notifications))
			for _, n := range notifications {
				out = append(out, toNotificationResponse(n))
			}
			return out, nil
		},
	}
	return h.stream(c, query)
}

// stream runs the SSE write loop for one subscription. Snapshots flow
// through a latest-wins mailbox so a slow client never blocks the hub
// worker; skipped intermediates are fine because every snapshot is a full
// result set.
func (h *StreamHandler) stream(c echo.Context, query realtime.Query) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	metrics.StreamSubscribers.WithLabelValues(query.Collection).Inc()
	defer metrics.StreamSubscribers.WithLabelValues(query.Collection).Dec()

	timedRun := query.Run
	query.Run = func(ctx context.Context) (any, error) {
		start := time.Now()
		result, err := timedRun(ctx)
		metrics.SnapshotDuration.WithLabelValues(query.Collection).Observe(time.Since(start).Seconds())
		return result, err
	}

	snapshots := make(chan any, 1)
	deliver := func(v any) {
		for {
			select {
			case snapshots <- v:
				return
			default:
			}
			select {
			case <-snapshots: // drop the stale snapshot
			default:
			}
		}
	}

	ctx := c.Request().Context()
	cancel := h.hub.Subscribe(ctx, query, deliver)
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(res, "event: ping\ndata: {}\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case v := <-snapshots:
			payload, err := json.Marshal(v)
			if err != nil {
				h.log.Error().Err(err).Str("collection", query.Collection).Msg("failed to encode snapshot")
				continue
			}
			if _, err := fmt.Fprintf(res, "event: snapshot\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
