package handler

import (
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

type ReportHandler struct {
	ticketService ports.TicketService
}

func NewReportHandler(ticketService ports.TicketService) *ReportHandler {
	return &ReportHandler{ticketService: ticketService}
}

// reportTemplate renders a self-contained printable page. Consumers print it
// or capture it to PDF from the browser; the server never rasterizes.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #1a1a1a; }
  h1 { font-size: 18px; margin-bottom: 2px; }
  .meta { color: #666; font-size: 11px; margin-bottom: 16px; }
  table { border-collapse: collapse; width: 100%; font-size: 12px; }
  th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; vertical-align: top; }
  th { background: #f2f2f2; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">Generated {{.GeneratedAt}} &mdash; {{.Count}} ticket(s)</div>
<table>
<thead>
<tr><th>Title</th><th>Sender</th><th>Location</th><th>Severity</th><th>Status</th><th>Quantity</th><th>Notes</th><th>Date</th><th>Time</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr><td>{{.Title}}</td><td>{{.Sender}}</td><td>{{.Location}}</td><td>{{.Severity}}</td><td>{{.Status}}</td><td>{{.Quantity}}</td><td>{{.Notes}}</td><td>{{.Date}}</td><td>{{.Time}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type reportRow struct {
	Title    string
	Sender   string
	Location string
	Severity string
	Status   string
	Quantity string
	Notes    string
	Date     string
	Time     string
}

type reportPage struct {
	Title       string
	GeneratedAt string
	Count       int
	Rows        []reportRow
}

// Tickets renders the ticket table as printable HTML. scope=all exports the
// full visible set regardless of the active list filter; scope=open exports
// Open tickets only.
//
// @Summary      Export tickets as printable HTML
// @Tags         reports
// @Produce      html
// @Security     BearerAuth
// @Param        scope  query  string  false  "Export scope"  Enums(all, open)  default(all)
// @Success      200  {string}  string  "HTML document"
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/reports/tickets [get]
func (h *ReportHandler) Tickets(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	scope := c.QueryParam("scope")
	if scope == "" {
		scope = "all"
	}
	if scope != "all" && scope != "open" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown scope: " + scope})
	}

	tickets, err := h.ticketService.ListAll(c.Request().Context(), session)
	if err != nil {
		return err
	}

	title := "All Tickets"
	if scope == "open" {
		title = "Open Tickets"
		open := tickets[:0]
		for _, t := range tickets {
			if t.Status == domain.StatusOpen {
				open = append(open, t)
			}
		}
		tickets = open
	}

	page := reportPage{
		Title:       title,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 MST"),
		Count:       len(tickets),
	}
	for _, t := range tickets {
		page.Rows = append(page.Rows, reportRow{
			Title:    t.Title,
			Sender:   t.Sender,
			Location: t.Location,
			Severity: string(t.Severity),
			Status:   string(t.Status),
			Quantity: t.Quantity,
			Notes:    t.Notes,
			Date:     t.Date,
			Time:     t.Time,
		})
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return reportTemplate.Execute(c.Response(), page)
}

// Summary returns the dashboard aggregates.
//
// @Summary      Ticket summary figures
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.ReportSummary
// @Failure      401  {object}  errorResponse
// @Router       /v1/reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	summary, err := h.ticketService.Summary(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
