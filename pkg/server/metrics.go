// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Kinds of content served, used as the "kind" metric label.
const (
	KindPage   = "page"
	KindCSV    = "csv"
	KindData   = "data"
	KindStatic = "static"
	KindSystem = "system"
)

// unmatchedRoute labels requests no registered pattern matched.
const unmatchedRoute = "unmatched"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infinitory_http_requests_total",
			Help: "Total number of HTTP requests by route, content kind and status",
		},
		[]string{"method", "route", "kind", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "infinitory_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by content kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "kind"},
	)

	httpResponseBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infinitory_http_response_bytes_total",
			Help: "Total bytes of response bodies by content kind",
		},
		[]string{"kind"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "infinitory_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	rateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "infinitory_http_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	panicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "infinitory_http_panic_recoveries_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
	)
)

// requestKind classifies a request path of the report tree.
func requestKind(p string) string {
	switch p {
	case "/health", "/ready", "/metrics":
		return KindSystem
	}
	if p == "" || strings.HasSuffix(p, "/") {
		return KindPage
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".html", ".htm", "":
		return KindPage
	case ".csv":
		return KindCSV
	case ".json", ".yaml", ".yml":
		return KindData
	default:
		return KindStatic
	}
}

// metricsMiddleware records request count, latency and response size per
// content kind. Routes are labeled by their mux pattern so per-node pages
// do not grow label cardinality.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := newResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		kind := requestKind(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, route, kind, strconv.Itoa(wrapped.Status())).Inc()
		httpRequestDuration.WithLabelValues(r.Method, kind).Observe(time.Since(start).Seconds())
		httpResponseBytes.WithLabelValues(kind).Add(float64(wrapped.Bytes()))
	}
}
