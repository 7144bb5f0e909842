package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubTicketRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Ticket
	createErr error // if set, Create returns this error
	unreadErr error // if set, SetUnread returns this error
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{byID: make(map[string]*domain.Ticket)}
}

func (r *stubTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	clone := *t
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use, ordered by
// created_at descending.
func (r *stubTicketRepo) List(_ context.Context, f ports.ListTicketsFilter) ([]*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Ticket
	for _, t := range r.byID {
		if !ticketMatches(t, f) {
			continue
		}
		clone := *t
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *stubTicketRepo) Update(_ context.Context, id string, patch ports.TicketPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.Title = patch.Title
	t.Location = patch.Location
	t.Severity = patch.Severity
	t.Status = patch.Status
	t.Notes = patch.Notes
	t.TicketDetails = patch.TicketDetails
	t.Quantity = patch.Quantity
	t.UpdatedAt = patch.UpdatedAt
	return nil
}

func (r *stubTicketRepo) SetUnread(_ context.Context, id string, unread bool, lastMessageAt time.Time, lastMessageBy string) error {
	if r.unreadErr != nil {
		return r.unreadErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.HasUnreadMessages = unread
	if unread {
		t.LastMessageAt = lastMessageAt
		t.LastMessageBy = lastMessageBy
	}
	return nil
}

func (r *stubTicketRepo) Count(_ context.Context, f ports.ListTicketsFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.byID {
		if ticketMatches(t, f) {
			n++
		}
	}
	return n, nil
}

func ticketMatches(t *domain.Ticket, f ports.ListTicketsFilter) bool {
	if f.OwnerEmail != "" && t.OwnerEmail != f.OwnerEmail {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if t.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type stubMessageRepo struct {
	mu        sync.Mutex
	byTicket  map[string][]*domain.Message
	appendErr error
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{byTicket: make(map[string][]*domain.Message)}
}

func (r *stubMessageRepo) Append(_ context.Context, m *domain.Message) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *m
	r.byTicket[m.TicketID] = append(r.byTicket[m.TicketID], &clone)
	return nil
}

func (r *stubMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	thread := r.byTicket[ticketID]
	out := make([]*domain.Message, 0, len(thread))
	for _, m := range thread {
		clone := *m
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type stubNotificationRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Notification
	createErr error
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{byID: make(map[string]*domain.Notification)}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *n
	r.byID[n.ID] = &clone
	return nil
}

func (r *stubNotificationRepo) ListUnread(_ context.Context) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.byID {
		if n.Read {
			continue
		}
		clone := *n
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

type stubUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	clone.ID = "user_" + user.Email
	r.byEmail[user.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) EnsureByEmail(_ context.Context, email, role string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		clone := *u
		return &clone, nil
	}
	u := &domain.User{ID: "user_" + email, Email: email, Role: role, CreatedAt: time.Now().UTC()}
	r.byEmail[email] = u
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, email string, patch ports.ProfilePatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Company != nil {
		u.Company = *patch.Company
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Address != nil {
		u.Address = *patch.Address
	}
	if patch.Website != nil {
		u.Website = *patch.Website
	}
	clone := *u
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubCache struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]string)}
}

func (c *stubCache) Get(_ context.Context, email string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[email]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, email, company string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[email] = company
	return nil
}

// stubNotifier collects enqueued notifications synchronously.
type stubNotifier struct {
	mu    sync.Mutex
	queue []domain.Notification
}

func (n *stubNotifier) Enqueue(notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.queue = append(n.queue, notification)
}

func (n *stubNotifier) all() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.queue...)
}

// stubPublisher records published change events.
type stubPublisher struct {
	mu     sync.Mutex
	events []ports.ChangeEvent
}

func (p *stubPublisher) Publish(event ports.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *stubPublisher) byCollection(collection string) []ports.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []ports.ChangeEvent
	for _, e := range p.events {
		if e.Collection == collection {
			out = append(out, e)
		}
	}
	return out
}
