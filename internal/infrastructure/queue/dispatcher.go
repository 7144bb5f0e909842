package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/arabemerge/helpdesk/internal/api/metrics"
	"github.com/arabemerge/helpdesk/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	maxAttempts    = 3
	retryBackoff   = 250 * time.Millisecond
)

// Recorder persists a fanned-out notification.
type Recorder interface {
	Record(ctx context.Context, n domain.Notification) error
}

// Dispatcher routes notification writes to a fixed set of workers using
// consistent hashing on the ticket id, guaranteeing per-ticket notification
// ordering. The ticket/message write and its companion notification are not
// transactional, so the notification leg retries independently here instead
// of being dropped on failure.
type Dispatcher struct {
	workers  []chan domain.Notification
	recorder Recorder
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder Recorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.Notification, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// SetRecorder installs the persistence target. Must be called before Start;
// it exists because the recorder is itself constructed with dependencies
// that are only available after the dispatcher.
func (d *Dispatcher) SetRecorder(r Recorder) {
	d.recorder = r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a notification to the worker responsible for its ticket.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(n domain.Notification) {
	i := d.shardIndex(n.TicketID)
	d.workers[i] <- n
	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a ticket id deterministically to a worker index.
func (d *Dispatcher) shardIndex(ticketID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ticketID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			d.record(ctx, id, n)
			metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, workerID int, n domain.Notification) {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = d.recorder.Record(ctx, n); err == nil {
			metrics.NotificationsCreatedTotal.WithLabelValues(string(n.Type)).Inc()
			if attempt > 1 {
				metrics.NotificationRetriesTotal.Add(float64(attempt - 1))
			}
			return
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}
	}

	metrics.NotificationFailuresTotal.WithLabelValues(string(n.Type)).Inc()
	d.log.Error().Err(err).
		Str("notification_id", n.ID).
		Str("ticket_id", n.TicketID).
		Int("worker_id", workerID).
		Int("attempts", maxAttempts).
		Msg("notification write failed, giving up")
}
