// Package metrics defines and registers all custom Prometheus metrics for the
// booking API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto; /metrics exposes them alongside the HTTP
// request metrics collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medicare"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts created accounts.
// Label:
//   - role: "patient", "doctor" or "admin"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutSessionsTotal counts checkout attempts.
// Labels:
//   - result: "created" or the error kind ("not_found", "invalid_state", "invalid_input", "provider_error", "unauthorized")
//   - stage: the last stage reached before the attempt ended
var CheckoutSessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "sessions_total",
		Help:      "Total number of checkout session attempts, by result and stage reached.",
	},
	[]string{"result", "stage"},
)

// CheckoutProviderDuration measures the payment provider round trip.
var CheckoutProviderDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "provider_duration_seconds",
		Help:      "Duration of payment provider session creation calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Doctor / review metrics ───────────────────────────────────────────────────

// RatingJobsTotal counts asynchronous rating recomputations.
// Label:
//   - result: "ok", "error" or "dropped" (queue full at enqueue time)
var RatingJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reviews",
		Name:      "rating_jobs_total",
		Help:      "Total number of doctor rating recomputations, by result.",
	},
	[]string{"result"},
)

// RatingQueueDepth tracks pending rating jobs per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RatingQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "reviews",
		Name:      "rating_queue_depth",
		Help:      "Current number of rating jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// DoctorCacheTotal counts doctor cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var DoctorCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "doctors",
		Name:      "cache_total",
		Help:      "Total number of doctor cache lookups, by result.",
	},
	[]string{"result"},
)
