// Package metrics defines and registers all custom Prometheus metrics of the
// laundry dashboard. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "laundry"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the laundry backend.
// Labels:
//   - endpoint: the path template (e.g. "/order/laundry/:laundryId")
//   - code: the HTTP status code, or "error" when no response arrived
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the laundry backend.",
	},
	[]string{"endpoint", "code"},
)

// BackendRequestDuration measures backend round trips.
// Label:
//   - endpoint: the path template
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the laundry backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsTotal counts session lifecycle events.
// Label:
//   - event: "login", "login_failed", "logout" or "expired"
var SessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Total number of session lifecycle events.",
	},
	[]string{"event"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - outcome: "loading", "redirect", "forbidden" or "render"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders created through the dashboard.
// Label:
//   - payment_status: "paid" or "not_paid"
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by payment status.",
	},
	[]string{"payment_status"},
)

// OrderUpdatesTotal counts order status and payment updates.
// Labels:
//   - field: "status" or "payment_status"
//   - mode: "full" when the whole order was re-sent, "partial" otherwise
var OrderUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_updates_total",
		Help:      "Total number of order updates, by field and payload mode.",
	},
	[]string{"field", "mode"},
)
