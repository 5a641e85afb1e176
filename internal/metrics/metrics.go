// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package metrics declares Ning's Prometheus collectors and small helpers
// for recording them. Collectors register on the default registry via promauto
// and are exposed by the /metrics route.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Key-value store metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kvstore_operations_total",
			Help: "Total key-value store operations by backend, operation and result",
		},
		[]string{"backend", "operation", "result"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kvstore_operation_duration_seconds",
			Help:    "Duration of key-value store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"backend", "operation"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result (success, failure, rejected)",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Auth metrics
	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Authentication events by type and outcome",
		},
		[]string{"event", "outcome"},
	)

	// Domain metrics
	ForumActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_actions_total",
			Help: "Forum mutations by action",
		},
		[]string{"action"},
	)

	StudyMistakesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_mistakes_recorded_total",
			Help: "Mistakes recorded by difficulty",
		},
		[]string{"difficulty"},
	)

	AgentReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_replies_total",
			Help: "Agent replies by matched rule",
		},
		[]string{"rule"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreOp records a key-value store call. Missing keys count as hits
// on the "miss" result, not as errors.
func RecordStoreOp(backend, operation string, duration time.Duration, err error, miss bool) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case miss:
		result = "miss"
	}
	StoreOperations.WithLabelValues(backend, operation, result).Inc()
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordAuthEvent records register, login, logout or authenticate outcomes.
func RecordAuthEvent(event string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	AuthEvents.WithLabelValues(event, outcome).Inc()
}

// RecordForumAction counts a forum mutation such as "create_post" or "like".
func RecordForumAction(action string) {
	ForumActions.WithLabelValues(action).Inc()
}

// RecordMistake counts a recorded mistake; empty difficulty is "unknown".
func RecordMistake(difficulty string) {
	if difficulty == "" {
		difficulty = "unknown"
	}
	StudyMistakesRecorded.WithLabelValues(difficulty).Inc()
}

// RecordAgentReply counts a generated reply by rule name.
func RecordAgentReply(rule string) {
	AgentReplies.WithLabelValues(rule).Inc()
}
