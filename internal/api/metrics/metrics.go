// Package metrics defines and registers all custom Prometheus metrics for the
// task board API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskboard"

// ── Identity provider metrics ────────────────────────────────────────────────

// IdentityRequestsTotal counts outbound calls to the identity provider.
// Labels:
//   - operation: "get_user" or "list_users"
//   - outcome: "ok", "upstream_error", "bad_payload" or "transport_error"
var IdentityRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_requests_total",
		Help:      "Total number of identity provider calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// IdentityRequestDuration measures the latency of identity provider calls.
var IdentityRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "identity_request_duration_seconds",
		Help:      "Duration of identity provider calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Resource metrics ─────────────────────────────────────────────────────────

// TasksCreatedTotal counts created tasks.
// Label:
//   - replay: "true" when the Idempotency-Key matched an earlier request
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of task creation requests served.",
	},
	[]string{"replay"},
)

// AttachmentBytesUploaded sums the size of stored attachments.
var AttachmentBytesUploaded = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attachment_bytes_uploaded_total",
		Help:      "Total bytes of attachment content stored.",
	},
)

// ForbiddenTotal counts requests rejected by the permission evaluator.
// Label:
//   - route: the matched route path (e.g. "/comments/:id")
var ForbiddenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forbidden_total",
		Help:      "Total number of requests rejected with 403.",
	},
	[]string{"route"},
)
