// Package metrics defines the custom Prometheus metrics of the exercise
// tracker API. Metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exercise_tracker"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts POST /api/users outcomes.
// Label:
//   - result: "created" or "existing" (username already registered)
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user registrations, by result.",
	},
	[]string{"result"},
)

// ── Exercise metrics ──────────────────────────────────────────────────────────

// ExercisesRecordedTotal counts entries appended to a user log.
var ExercisesRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exercises_recorded_total",
		Help:      "Total number of exercise entries appended.",
	},
)

// ExercisesRejectedTotal counts exercise submissions that did not append.
// Label:
//   - reason: "invalid_id", "unknown_user", "invalid_duration", "invalid_date", "in_progress", "store_error"
var ExercisesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exercises_rejected_total",
		Help:      "Total number of exercise submissions rejected, by reason.",
	},
	[]string{"reason"},
)

// IdempotentReplaysTotal counts submissions answered from the replay store.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exercise_idempotent_replays_total",
		Help:      "Total number of exercise submissions answered from a stored result.",
	},
)

// ── Log metrics ───────────────────────────────────────────────────────────────

// LogQueriesTotal counts log queries.
// Label:
//   - bounds: "applied" when both from and to parsed, otherwise "none"
var LogQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_queries_total",
		Help:      "Total number of log queries, by whether a date range was applied.",
	},
	[]string{"bounds"},
)

// LogEntriesReturned observes how many entries each log query returned.
var LogEntriesReturned = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "log_entries_returned",
		Help:      "Number of log entries returned per query.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by outcome.
// Label:
//   - result: "persisted", "failed" or "dropped" (worker buffer full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of exercise audit events, by outcome.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditProcessingDuration measures how long persisting one audit event takes.
// Label:
//   - result: "persisted" or "failed"
var AuditProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_processing_duration_seconds",
		Help:      "Duration of audit event persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
