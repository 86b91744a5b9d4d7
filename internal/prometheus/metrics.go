package prometheus

import (
	promclient "github.com/prometheus/client_golang/prometheus"
)

// Business-level metrics for the novel API
// These track actual catalogue and reader activity, not just HTTP requests

var (
	// ═══════════════════════════════════════════════════════════════════════════
	// CATALOGUE METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// NovelsCreatedTotal - Counter of novels created, labeled by language
	NovelsCreatedTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_novels_created_total",
			Help: "Total number of novels created",
		},
		[]string{"language"},
	)

	// NovelsDeletedTotal - Counter of novels deleted
	NovelsDeletedTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "novel_api_novels_deleted_total",
			Help: "Total number of novels deleted",
		},
	)

	// PublicationsTotal - Counter of publish state changes
	PublicationsTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_publications_total",
			Help: "Total number of publish and unpublish operations",
		},
		[]string{"entity", "action"}, // "novel" or "chapter"; "publish" or "unpublish"
	)

	// ChaptersCreatedTotal - Counter of chapters created
	ChaptersCreatedTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "novel_api_chapters_created_total",
			Help: "Total number of chapters created",
		},
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// REVIEW METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// ReviewsCreatedTotal - Counter of reviews created, labeled by rating
	ReviewsCreatedTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_reviews_created_total",
			Help: "Total number of reviews created",
		},
		[]string{"rating"},
	)

	// ReviewsModeratedTotal - Counter of moderation decisions
	ReviewsModeratedTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_reviews_moderated_total",
			Help: "Total number of review moderation decisions",
		},
		[]string{"outcome"}, // "approved" or "rejected"
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// READER INTERACTION METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// FavoritesToggledTotal - Counter of favorite toggles
	FavoritesToggledTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_favorites_toggled_total",
			Help: "Total number of favorite toggles",
		},
		[]string{"action"}, // "add" or "remove"
	)

	// BookmarksChangedTotal - Counter of bookmark changes
	BookmarksChangedTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_bookmarks_changed_total",
			Help: "Total number of bookmark changes",
		},
		[]string{"action"}, // "add" or "remove"
	)

	// ChapterReadsTotal - Counter of reading progress updates
	ChapterReadsTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "novel_api_chapter_reads_total",
			Help: "Total number of reading progress updates",
		},
	)

	// CounterAdjustmentFailures - Counter of denormalized counter updates that failed
	CounterAdjustmentFailures = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_counter_adjustment_failures_total",
			Help: "Total number of denormalized counter adjustments that failed after the primary write",
		},
		[]string{"collection", "field"},
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// OPERATION DURATION METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// OperationDuration - Histogram of document store operation durations
	OperationDuration = promclient.NewHistogramVec(
		promclient.HistogramOpts{
			Name:    "novel_api_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: promclient.DefBuckets,
		},
		[]string{"operation", "collection", "success"},
	)

	// OperationsTotal - Counter of all document store operations
	OperationsTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"operation", "collection", "success"},
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// AUTHENTICATION METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// AuthAttemptsTotal - Counter of login attempts
	AuthAttemptsTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"success"}, // "true" or "false"
	)

	// AuthDuration - Histogram of login duration (dominated by bcrypt)
	AuthDuration = promclient.NewHistogram(
		promclient.HistogramOpts{
			Name:    "novel_api_auth_duration_seconds",
			Help:    "Duration of login attempts in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// UsersRegisteredTotal - Counter of registrations, labeled by role
	UsersRegisteredTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_users_registered_total",
			Help: "Total number of registered users",
		},
		[]string{"role"},
	)

	// RateLimitRejections - Counter of requests rejected by the advisory limiter
	RateLimitRejections = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "novel_api_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// CONNECTION POOL METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// PoolActiveConnections - Gauge of active (in-use) connections
	PoolActiveConnections = promclient.NewGauge(
		promclient.GaugeOpts{
			Name: "novel_api_store_pool_active_connections",
			Help: "Number of active (in-use) store connections",
		},
	)

	// PoolIdleConnections - Gauge of idle (available) connections
	PoolIdleConnections = promclient.NewGauge(
		promclient.GaugeOpts{
			Name: "novel_api_store_pool_idle_connections",
			Help: "Number of idle (available) store connections",
		},
	)

	// PoolTotalRequests - Gauge of total store requests
	PoolTotalRequests = promclient.NewGauge(
		promclient.GaugeOpts{
			Name: "novel_api_store_total_requests",
			Help: "Total number of document store requests",
		},
	)

	// PoolSize - Gauge of pool size
	PoolSize = promclient.NewGauge(
		promclient.GaugeOpts{
			Name: "novel_api_store_pool_size",
			Help: "Size of the store connection pool",
		},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	promclient.MustRegister(
		NovelsCreatedTotal,
		NovelsDeletedTotal,
		PublicationsTotal,
		ChaptersCreatedTotal,
		ReviewsCreatedTotal,
		ReviewsModeratedTotal,
		FavoritesToggledTotal,
		BookmarksChangedTotal,
		ChapterReadsTotal,
		CounterAdjustmentFailures,
		OperationDuration,
		OperationsTotal,
		AuthAttemptsTotal,
		AuthDuration,
		UsersRegisteredTotal,
		RateLimitRejections,
		PoolActiveConnections,
		PoolIdleConnections,
		PoolTotalRequests,
		PoolSize,
	)
}
