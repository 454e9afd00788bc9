// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// BlogsPublished counts blog posts created, labeled by category.
	BlogsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_blogs_published_total",
		Help: "Total number of blog posts published by category",
	}, []string{"category"})

	// CommentsCreated counts comments added to blog posts.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_comments_created_total",
		Help: "Total number of comments created",
	})

	// LikeToggles counts like and unlike actions on blog posts.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_like_toggles_total",
		Help: "Total number of like toggle actions by direction",
	}, []string{"direction"})

	// PaymentVerifications counts payment verification attempts by outcome.
	// Outcome is one of "verified", "signature_mismatch" or "error".
	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_payment_verifications_total",
		Help: "Total number of payment verification attempts by outcome",
	}, []string{"outcome"})

	// CreditsDebited counts AI credits consumed across all users.
	CreditsDebited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_credits_debited_total",
		Help: "Total number of AI credits debited",
	})

	// RewardsAccrued counts reward points granted by source action.
	RewardsAccrued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_rewards_accrued_total",
		Help: "Total reward points accrued by source action",
	}, []string{"action"})

	// EmailsSent counts outbound emails by kind and outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_emails_sent_total",
		Help: "Total number of outbound emails by kind and outcome",
	}, []string{"kind", "outcome"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
