// Package metrics defines the custom Prometheus metrics for the portal
// client. It is the single source of truth for metric names, labels, and
// help strings; the dev stub's HTTP middleware registers its own metrics
// separately via echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal_client"

// APIRequestsTotal counts completed API round trips.
// Labels:
//   - endpoint: the logical endpoint family (e.g. "auth", "students")
//   - method: HTTP method
//   - outcome: "ok", "rejected" (non-2xx) or "transport_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of portal API requests, by endpoint family and outcome.",
	},
	[]string{"endpoint", "method", "outcome"},
)

// APIRequestDuration measures the wall-clock duration of one API round trip.
// Label:
//   - endpoint: the logical endpoint family
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of portal API requests from send to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// OTPResendsTotal counts resend attempts that actually reached the network.
var OTPResendsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_resends_total",
		Help:      "Total number of OTP resend requests issued.",
	},
)
