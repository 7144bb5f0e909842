// Package realtime implements the live-query capability the UI relies on:
// subscribe to a query, receive the latest consistent result set immediately,
// then again whenever the underlying data changes, until the subscription's
// cancel handle is invoked.
package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arabemerge/helpdesk/internal/core/ports"
)

// Query describes what a subscription watches. Run recomputes the result
// set; it must be safe to call from the subscription's worker goroutine.
// TicketID, when set, narrows message/ticket subscriptions so changes on
// unrelated tickets do not trigger recomputes.
type Query struct {
	Collection string
	TicketID   string
	Run        func(ctx context.Context) (any, error)
}

// CancelFunc detaches a subscription. Safe to call more than once.
type CancelFunc func()

type subscription struct {
	id      uint64
	query   Query
	deliver func(any)
	trigger chan struct{}
	done    chan struct{}
}

// Hub fans change events out to live subscriptions. Each subscription owns
// one worker goroutine, so a subscriber always observes a monotonically
// consistent sequence of snapshots for its own query; there is no ordering
// guarantee across subscriptions.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*subscription
	nextID uint64
	log    zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{subs: make(map[uint64]*subscription), log: log}
}

// Subscribe registers a live query. The initial snapshot is computed and
// delivered before Subscribe returns; subsequent snapshots follow each
// matching change event. deliver is never called concurrently with itself.
func (h *Hub) Subscribe(ctx context.Context, query Query, deliver func(any)) CancelFunc {
	sub := &subscription{
		query:   query,
		deliver: deliver,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.nextID++
	sub.id = h.nextID
	h.subs[sub.id] = sub
	h.mu.Unlock()

	// Initial snapshot, synchronous: the subscriber sees current state
	// before any change-driven update.
	h.recompute(ctx, sub)

	go h.run(ctx, sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub.id)
			h.mu.Unlock()
			close(sub.done)
		})
	}
}

// Notify wakes every subscription whose query matches event. Triggers
// coalesce: a subscription that is already pending recompute is not queued
// twice, it simply recomputes once over the newer state.
func (h *Hub) Notify(event ports.ChangeEvent) {
	h.mu.Lock()
	matched := make([]*subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.query.Collection != event.Collection {
			continue
		}
		if sub.query.TicketID != "" && event.TicketID != "" && sub.query.TicketID != event.TicketID {
			continue
		}
		matched = append(matched, sub)
	}
	h.mu.Unlock()

	for _, sub := range matched {
		select {
		case sub.trigger <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions for a collection.
func (h *Hub) Subscribers(collection string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, sub := range h.subs {
		if sub.query.Collection == collection {
			n++
		}
	}
	return n
}

func (h *Hub) run(ctx context.Context, sub *subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			return
		case <-sub.trigger:
			h.recompute(ctx, sub)
		}
	}
}

func (h *Hub) recompute(ctx context.Context, sub *subscription) {
	result, err := sub.query.Run(ctx)
	if err != nil {
		// A failed recompute degrades to a stale view; the next change
		// event retries.
		h.log.Warn().Err(err).
			Str("collection", sub.query.Collection).
			Str("ticket_id", sub.query.TicketID).
			Msg("snapshot recompute failed")
		return
	}
	sub.deliver(result)
}
