package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arabemerge/helpdesk/internal/api/metrics"
	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

type TicketHandler struct {
	ticketService ports.TicketService
}

func NewTicketHandler(ticketService ports.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Create opens a new ticket owned by the authenticated user.
//
// @Summary      Create a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Ticket entry form"
// @Success      201   {object}  ticketResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ticket, err := h.ticketService.Create(c.Request().Context(), session, ports.CreateTicketInput{
		Title:         req.Title,
		Location:      req.Location,
		Time:          req.Time,
		Severity:      domain.Severity(req.Severity),
		Quantity:      req.Quantity,
		Notes:         req.Notes,
		TicketDetails: req.TicketDetails,
	})
	if err != nil {
		return err
	}

	metrics.TicketsCreatedTotal.WithLabelValues(string(ticket.Severity)).Inc()
	return c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

// List returns the ticket list visible to the viewer. Without a status
// filter, resolved tickets are hidden; with one, only that status is shown.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"  Enums(Open, In Progress, Resolved, Closed)
// @Success      200     {object}  listTicketsResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	status := domain.TicketStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown status: " + string(status)})
	}

	tickets, err := h.ticketService.List(c.Request().Context(), session, ports.ListTicketsInput{StatusFilter: status})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketListResponse(tickets))
}

// Get returns a ticket's detail view, including the sender company and the
// conversation thread. Opening the detail clears the unread marker.
//
// @Summary      Ticket detail
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket id"
// @Success      200  {object}  ticketDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	detail, err := h.ticketService.Get(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketDetailResponse(detail))
}

// Update saves the admin edit form. Every editable field is written.
//
// @Summary      Update a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Ticket id"
// @Param        body  body      updateTicketRequest  true  "Edit form"
// @Success      200   {object}  ticketResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/tickets/{id} [put]
func (h *TicketHandler) Update(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ticket, err := h.ticketService.Update(c.Request().Context(), session, c.Param("id"), ports.UpdateTicketInput{
		Title:         req.Title,
		Location:      req.Location,
		Severity:      domain.Severity(req.Severity),
		Status:        domain.TicketStatus(req.Status),
		Notes:         req.Notes,
		TicketDetails: req.TicketDetails,
		Quantity:      req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

// Counts returns the per-status tallies shown in the admin sidebar.
//
// @Summary      Ticket counts by status
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.StatusCounts
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/tickets/counts [get]
func (h *TicketHandler) Counts(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	counts, err := h.ticketService.Counts(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}

// MyCounts returns the current/past tallies for the viewer's own tickets.
//
// @Summary      Own ticket counts
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.OwnerCounts
// @Failure      401  {object}  errorResponse
// @Router       /v1/tickets/counts/me [get]
func (h *TicketHandler) MyCounts(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	counts, err := h.ticketService.CountsForOwner(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}
