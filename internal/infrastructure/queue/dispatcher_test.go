package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// stubRecorder counts Record calls and can fail the first N attempts per
// notification id.
type stubRecorder struct {
	mu        sync.Mutex
	failFirst int
	attempts  map[string]int
	recorded  []domain.Notification
}

func newStubRecorder(failFirst int) *stubRecorder {
	return &stubRecorder{failFirst: failFirst, attempts: make(map[string]int)}
}

func (r *stubRecorder) Record(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[n.ID]++
	if r.attempts[n.ID] <= r.failFirst {
		return errors.New("transient write failure")
	}
	r.recorded = append(r.recorded, n)
	return nil
}

func (r *stubRecorder) snapshot() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.recorded...)
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestDispatcher_RecordsEnqueuedNotifications(t *testing.T) {
	recorder := newStubRecorder(0)
	d := NewDispatcher(2, recorder, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.Notification{ID: "n1", TicketID: "t1"})
	d.Enqueue(domain.Notification{ID: "n2", TicketID: "t2"})

	waitUntil(t, 2*time.Second, func() bool {
		return len(recorder.snapshot()) == 2
	})
}

func TestDispatcher_RetriesTransientFailures(t *testing.T) {
	recorder := newStubRecorder(2) // fail twice, succeed on third attempt
	d := NewDispatcher(1, recorder, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.Notification{ID: "n1", TicketID: "t1"})

	waitUntil(t, 5*time.Second, func() bool {
		return len(recorder.snapshot()) == 1
	})

	recorder.mu.Lock()
	attempts := recorder.attempts["n1"]
	recorder.mu.Unlock()
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	recorder := newStubRecorder(10) // never succeeds within the retry budget
	d := NewDispatcher(1, recorder, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.Notification{ID: "n1", TicketID: "t1", Type: domain.NotificationTicket})

	waitUntil(t, 5*time.Second, func() bool {
		recorder.mu.Lock()
		defer recorder.mu.Unlock()
		return recorder.attempts["n1"] == maxAttempts
	})

	// Give the worker a moment to prove it does not keep retrying.
	time.Sleep(100 * time.Millisecond)
	recorder.mu.Lock()
	attempts := recorder.attempts["n1"]
	recorder.mu.Unlock()
	if attempts != maxAttempts {
		t.Fatalf("expected exactly %d attempts, got %d", maxAttempts, attempts)
	}
	if len(recorder.snapshot()) != 0 {
		t.Fatalf("abandoned notification must not be recorded")
	}
}

func TestDispatcher_PerTicketOrderingPreserved(t *testing.T) {
	recorder := newStubRecorder(0)
	d := NewDispatcher(4, recorder, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	ids := []string{"n1", "n2", "n3", "n4", "n5"}
	for _, id := range ids {
		d.Enqueue(domain.Notification{ID: id, TicketID: "t1"})
	}

	waitUntil(t, 2*time.Second, func() bool {
		return len(recorder.snapshot()) == len(ids)
	})

	recorded := recorder.snapshot()
	for i, n := range recorded {
		if n.ID != ids[i] {
			t.Fatalf("ordering broken at %d: got %s, want %s", i, n.ID, ids[i])
		}
	}
}

func TestDispatcher_ShardIndexIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newStubRecorder(0), zerolog.Nop())
	first := d.shardIndex("ticket-abc")
	for i := 0; i < 10; i++ {
		if d.shardIndex("ticket-abc") != first {
			t.Fatalf("shard index must be stable for a ticket id")
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
