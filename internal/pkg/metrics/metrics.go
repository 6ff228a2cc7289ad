// Package metrics defines the Prometheus metrics for the portal client. It is
// the single source of truth for metric names, labels, and help strings.
//
// Metrics register with the default registry on package load; the gateway
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Outbound API metrics ──────────────────────────────────────────────────────

// RequestsTotal counts calls made to the backend.
// Labels:
//   - scope: the domain base path (e.g. "/workspace/fm", "/" for auth)
//   - method: HTTP method
//   - code: response status code, or "error" when no response arrived
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of requests sent to the portal backend.",
	},
	[]string{"scope", "method", "code"},
)

// RequestDuration measures backend round-trip latency.
// Labels:
//   - scope: the domain base path
//   - method: HTTP method
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests sent to the portal backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"scope", "method"},
)

// RateLimitWaitSeconds measures time spent waiting on the outbound limiter.
var RateLimitWaitSeconds = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "rate_limit_wait_seconds",
		Help:      "Time requests spent waiting for the outbound rate limiter.",
		Buckets:   []float64{.001, .01, .05, .1, .5, 1, 5},
	},
)

// ── Bulk upload metrics ───────────────────────────────────────────────────────

// UploadsTotal counts photo uploads handled by the bulk dispatcher.
// Label:
//   - result: "ok" or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of site-visit photo uploads, by result.",
	},
	[]string{"result"},
)

// UploadQueueDepth tracks pending uploads per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var UploadQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "upload_queue_depth",
		Help:      "Current number of uploads pending in each dispatcher worker.",
	},
	[]string{"worker_id"},
)

// ── Dashboard metrics ─────────────────────────────────────────────────────────

// DashboardLoadsTotal counts dashboard loads.
// Labels:
//   - role: the portal role the dashboard was built for
//   - result: "ok" or "error"
var DashboardLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_loads_total",
		Help:      "Total number of dashboard loads, by role and result.",
	},
	[]string{"role", "result"},
)
