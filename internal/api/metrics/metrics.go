// Package metrics defines and registers all custom Prometheus metrics for
// the helpdesk API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at package init; the router
// exposes them on /metrics alongside the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "helpdesk"

// ── Ticket metrics ────────────────────────────────────────────────────────────

// TicketsCreatedTotal counts newly created tickets.
// Label:
//   - severity: "Low", "Medium", "High", or "Critical"
var TicketsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Total number of tickets created, by severity.",
	},
	[]string{"severity"},
)

// MessagesPostedTotal counts messages appended to ticket threads.
// Label:
//   - role: "admin" or "client"
var MessagesPostedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_posted_total",
		Help:      "Total number of thread messages posted, by author role.",
	},
	[]string{"role"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsCreatedTotal counts notifications persisted by the fan-out
// workers.
// Label:
//   - type: "ticket" or "message"
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications persisted, by type.",
	},
	[]string{"type"},
)

// NotificationsDismissedTotal counts banner dismissals.
var NotificationsDismissedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dismissed_total",
		Help:      "Total number of notifications dismissed.",
	},
)

// NotificationRetriesTotal counts retried notification writes.
var NotificationRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_retries_total",
		Help:      "Total number of notification write retries.",
	},
)

// NotificationFailuresTotal counts notification writes abandoned after all
// retry attempts.
// Label:
//   - type: "ticket" or "message"
var NotificationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification writes dropped after exhausting retries.",
	},
	[]string{"type"},
)

// NotificationQueueDepth tracks notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Stream metrics ────────────────────────────────────────────────────────────

// StreamSubscribers tracks open SSE subscriptions per collection.
// Label:
//   - collection: "tickets", "messages", or "notifications"
var StreamSubscribers = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_subscribers",
		Help:      "Current number of open SSE subscriptions, by collection.",
	},
	[]string{"collection"},
)

// SnapshotDuration measures how long one live-query recompute takes.
// Label:
//   - collection: the subscribed collection
var SnapshotDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_duration_seconds",
		Help:      "Duration of live-query snapshot recomputation.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"collection"},
)
