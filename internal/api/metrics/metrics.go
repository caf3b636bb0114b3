// Package metrics defines and registers all custom Prometheus metrics for the
// storefront client and its sandbox API. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry on package import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Client metrics ────────────────────────────────────────────────────────────

// APIRequestsTotal counts REST calls issued by the client adapter.
// Labels:
//   - method: HTTP method
//   - route:  route template, e.g. "/cart/item/{id}"
//   - code:   HTTP status code, or "transport_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of REST calls issued by the storefront client.",
	},
	[]string{"method", "route", "code"},
)

// APIRequestDuration measures round-trip latency of REST calls.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Round-trip duration of REST calls issued by the storefront client.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// CartMutationsTotal counts cart mutations by operation and outcome.
// Labels:
//   - op:     "add", "update", "remove"
//   - result: "ok", "rejected" (local validation / no identity), "failed", "stale"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations, by operation and outcome.",
	},
	[]string{"op", "result"},
)

// SerializerQueueDepth tracks jobs waiting in each serializer shard.
var SerializerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "serializer_queue_depth",
		Help:      "Current number of mutations pending in each serializer shard.",
	},
	[]string{"shard"},
)

// SessionRestoresTotal counts restore outcomes.
// Label:
//   - result: "restored", "upgraded", "discarded", "empty"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restores from durable storage, by outcome.",
	},
	[]string{"result"},
)

// OrdersPlacedTotal counts orders the client placed successfully.
// Label:
//   - payment_method: "COD" or "CARD"
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed by the storefront client.",
	},
	[]string{"payment_method"},
)

// ── Sandbox metrics ───────────────────────────────────────────────────────────

// SandboxOrdersPlacedTotal counts orders accepted by the sandbox API.
// Label:
//   - payment_method: "COD" or "CARD"
var SandboxOrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sandbox_orders_placed_total",
		Help:      "Total number of orders placed against the sandbox API.",
	},
	[]string{"payment_method"},
)
