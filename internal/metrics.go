/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "ecfdash"

// Registry holds every metric the module exports. A private registry keeps
// the default Go runtime collectors out of /metrics.
var Registry = prometheus.NewRegistry()

var (
	UpstreamRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "ECF api requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"})

	UpstreamLatency = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "ECF api request latency, including cache hits.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"})

	CacheLookups = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "httpcache",
			Name:      "lookups_total",
			Help:      "HTTP cache lookups by result (hit or miss).",
		}, []string{"result"})

	HTTPRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Dashboard requests by route and status code.",
		}, []string{"route", "code"})

	HTTPLatency = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Dashboard request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"})
)

// MetricsHandler serves Registry in the Prometheus exposition format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
