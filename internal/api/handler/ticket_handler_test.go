package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

type stubTicketService struct {
	createFn func(ctx context.Context, actor ports.Session, input ports.CreateTicketInput) (*domain.Ticket, error)
	getFn    func(ctx context.Context, actor ports.Session, id string) (*ports.TicketDetail, error)
	listFn   func(ctx context.Context, actor ports.Session, input ports.ListTicketsInput) ([]*domain.Ticket, error)
	updateFn func(ctx context.Context, actor ports.Session, id string, input ports.UpdateTicketInput) (*domain.Ticket, error)
}

func (s *stubTicketService) Create(ctx context.Context, actor ports.Session, input ports.CreateTicketInput) (*domain.Ticket, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubTicketService) Get(ctx context.Context, actor ports.Session, id string) (*ports.TicketDetail, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubTicketService) List(ctx context.Context, actor ports.Session, input ports.ListTicketsInput) ([]*domain.Ticket, error) {
	return s.listFn(ctx, actor, input)
}

func (s *stubTicketService) ListAll(ctx context.Context, actor ports.Session) ([]*domain.Ticket, error) {
	return s.listFn(ctx, actor, ports.ListTicketsInput{})
}

func (s *stubTicketService) Update(ctx context.Context, actor ports.Session, id string, input ports.UpdateTicketInput) (*domain.Ticket, error) {
	return s.updateFn(ctx, actor, id, input)
}

func (s *stubTicketService) Counts(ctx context.Context, actor ports.Session) (*ports.StatusCounts, error) {
	return &ports.StatusCounts{}, nil
}

func (s *stubTicketService) CountsForOwner(ctx context.Context, actor ports.Session) (*ports.OwnerCounts, error) {
	return &ports.OwnerCounts{}, nil
}

func (s *stubTicketService) Summary(ctx context.Context, actor ports.Session) (*ports.ReportSummary, error) {
	return &ports.ReportSummary{}, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, email, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("email", email)
	c.Set("uid", "u1")
	c.Set("role", role)
	return c
}

func TestTicketHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubTicketService{
		createFn: func(_ context.Context, actor ports.Session, input ports.CreateTicketInput) (*domain.Ticket, error) {
			if actor.Email != "alice@acme.com" || actor.IsAdmin {
				t.Fatalf("unexpected session: %+v", actor)
			}
			if input.Title != "Printer down" || input.Severity != domain.SeverityHigh {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Ticket{ID: "t1", Title: input.Title, Severity: input.Severity, Status: domain.StatusOpen}, nil
		},
	}
	h := NewTicketHandler(stub)

	body := strings.NewReader(`{"title":"Printer down","location":"Floor 2","time":"09:30","severity":"High"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "alice@acme.com", domain.RoleClient)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "t1" || resp["status"] != "Open" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestTicketHandler_Create_MissingRequiredFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubTicketService{
		createFn: func(context.Context, ports.Session, ports.CreateTicketInput) (*domain.Ticket, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewTicketHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", strings.NewReader(`{"title":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "alice@acme.com", domain.RoleClient)

	_ = h.Create(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTicketHandler_Create_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	h := NewTicketHandler(&stubTicketService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no session claims

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestTicketHandler_List_PassesStatusFilter(t *testing.T) {
	e := newTestEcho()
	stub := &stubTicketService{
		listFn: func(_ context.Context, _ ports.Session, input ports.ListTicketsInput) ([]*domain.Ticket, error) {
			if input.StatusFilter != domain.StatusResolved {
				t.Fatalf("filter not forwarded: %q", input.StatusFilter)
			}
			return []*domain.Ticket{{ID: "t1", Status: domain.StatusResolved}}, nil
		},
	}
	h := NewTicketHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/tickets?status=Resolved", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "alice@acme.com", domain.RoleClient)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(1) {
		t.Fatalf("unexpected total: %v", resp["total"])
	}
}

func TestTicketHandler_List_RejectsUnknownStatus(t *testing.T) {
	e := newTestEcho()
	stub := &stubTicketService{
		listFn: func(context.Context, ports.Session, ports.ListTicketsInput) ([]*domain.Ticket, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewTicketHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/tickets?status=Bogus", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "alice@acme.com", domain.RoleClient)

	_ = h.List(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTicketHandler_Get_ReturnsDetail(t *testing.T) {
	e := newTestEcho()
	stub := &stubTicketService{
		getFn: func(_ context.Context, _ ports.Session, id string) (*ports.TicketDetail, error) {
			if id != "t1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &ports.TicketDetail{
				Ticket:        &domain.Ticket{ID: "t1", Status: domain.StatusOpen},
				SenderCompany: "ACME",
				Messages:      []*domain.Message{{ID: "m1", TicketID: "t1", Content: "hi"}},
			}, nil
		},
	}
	h := NewTicketHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/tickets/t1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "alice@acme.com", domain.RoleClient)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["sender_company"] != "ACME" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if messages, ok := resp["messages"].([]any); !ok || len(messages) != 1 {
		t.Fatalf("expected 1 message in detail: %+v", resp["messages"])
	}
}

func TestTicketHandler_Get_PropagatesDomainErrors(t *testing.T) {
	e := newTestEcho()
	stub := &stubTicketService{
		getFn: func(context.Context, ports.Session, string) (*ports.TicketDetail, error) {
			return nil, domain.ErrTicketNotFound
		},
	}
	h := NewTicketHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/tickets/ghost", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "alice@acme.com", domain.RoleClient)
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	// The handler hands domain errors to the central error handler untouched.
	if err := h.Get(c); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketHandler_Update_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubTicketService{
		updateFn: func(_ context.Context, actor ports.Session, id string, input ports.UpdateTicketInput) (*domain.Ticket, error) {
			if !actor.IsAdmin {
				t.Fatalf("expected admin session")
			}
			return &domain.Ticket{ID: id, Status: input.Status, Severity: input.Severity}, nil
		},
	}
	h := NewTicketHandler(stub)

	body := strings.NewReader(`{"title":"T","location":"L","severity":"Critical","status":"In Progress"}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/tickets/t1", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "ops@arabemerge.com", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTicketHandler_Update_RejectsBadStatus(t *testing.T) {
	e := newTestEcho()
	stub := &stubTicketService{
		updateFn: func(context.Context, ports.Session, string, ports.UpdateTicketInput) (*domain.Ticket, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewTicketHandler(stub)

	body := strings.NewReader(`{"title":"T","location":"L","severity":"Critical","status":"Pending"}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/tickets/t1", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "ops@arabemerge.com", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	_ = h.Update(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
