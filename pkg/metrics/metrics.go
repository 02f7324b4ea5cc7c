package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records bearer-token authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// RoleChecks counts team-role evaluations and their outcome (allowed|denied|error).
	RoleChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_role_checks_total",
			Help: "Total number of team role checks",
		},
		[]string{"role", "result"},
	)

	// MessagesPosted counts messages persisted by kind (text|system|ai).
	MessagesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_messages_posted_total",
			Help: "Total number of thread messages posted",
		},
		[]string{"kind"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "huddle_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
