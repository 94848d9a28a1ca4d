// Package metrics provides Prometheus metrics for the dojo review platform.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Review workflow
	reviewsSubmitted      prometheus.Counter
	qualityReviews        prometheus.Counter
	submissionsCreated    prometheus.Counter
	submissionsCompleted  prometheus.Counter
	reviewPointsAwarded   prometheus.Counter
	experienceAwarded     prometheus.Counter
	reviewQuotaRejections prometheus.Counter

	// Sync handshake
	syncRequestsCreated  prometheus.Counter
	syncRequestsAccepted prometheus.Counter
	syncRequestsRejected prometheus.Counter
	syncPairsRemoved     prometheus.Counter

	// Operational health
	usersTotal       prometheus.Gauge
	submissionsTotal prometheus.Gauge
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	workerCount      prometheus.Gauge

	// Activity pipeline
	activityEvents     prometheus.Counter
	activityDuplicates prometheus.Counter
	activityDropped    prometheus.Counter
	activityLatency    prometheus.Histogram
	workerErrors       prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager registered on a custom registry so the default Go
// collectors do not pollute scrape output.
var globalManager *Manager                       //nolint:gochecknoglobals
var customRegistry = prometheus.NewRegistry()    //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dojo",
		subsystem:        "review",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.reviewsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "reviews_submitted_total",
		Help: "Total number of peer reviews recorded",
	})
	m.qualityReviews = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "quality_reviews_total",
		Help: "Total number of reviews classified as quality tier",
	})
	m.submissionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_created_total",
		Help: "Total number of submissions created",
	})
	m.submissionsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_completed_total",
		Help: "Total number of submissions that reached their required review count",
	})
	m.reviewPointsAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "review_points_awarded_total",
		Help: "Total PRP points awarded to reviewers",
	})
	m.experienceAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "experience_awarded_total",
		Help: "Total XP awarded to submission authors",
	})
	m.reviewQuotaRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "review_quota_rejections_total",
		Help: "Reviews rejected because the submission already had enough reviews",
	})

	m.syncRequestsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sync_requests_created_total",
		Help: "Total number of calendar sync requests created",
	})
	m.syncRequestsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sync_requests_accepted_total",
		Help: "Total number of calendar sync requests accepted",
	})
	m.syncRequestsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sync_requests_rejected_total",
		Help: "Total number of calendar sync requests rejected",
	})
	m.syncPairsRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sync_pairs_removed_total",
		Help: "Total number of synced peer pairs removed",
	})

	m.usersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "users_total",
		Help: "Current number of registered users",
	})
	m.submissionsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_total",
		Help: "Current number of submissions in the store",
	})
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "activity_queue_size",
		Help: "Current size of the activity event queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "activity_queue_capacity",
		Help: "Configured capacity of the activity event queue",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "activity_worker_count",
		Help: "Number of running activity workers",
	})

	m.activityEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "activity_events_total",
		Help: "Total number of activity events processed",
	})
	m.activityDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "activity_duplicates_total",
		Help: "Total number of duplicate activity events suppressed",
	})
	m.activityDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "activity_dropped_total",
		Help: "Activity events dropped because the queue was full",
	})
	m.activityLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "activity_latency_milliseconds",
		Help:    "Histogram of activity event processing latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "activity_worker_errors_total",
		Help: "Total number of activity worker processing errors",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem,
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem,
			Name:    "http_request_duration_milliseconds",
			Help:    "HTTP request duration in milliseconds",
			Buckets: m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers delegating to the global manager.

func RecordReviewSubmitted(quality bool, points int) {
	globalManager.reviewsSubmitted.Inc()
	if quality {
		globalManager.qualityReviews.Inc()
	}
	globalManager.reviewPointsAwarded.Add(float64(points))
}

func RecordSubmissionCreated() { globalManager.submissionsCreated.Inc() }

func RecordSubmissionCompleted(xp int) {
	globalManager.submissionsCompleted.Inc()
	globalManager.experienceAwarded.Add(float64(xp))
}

func RecordReviewQuotaRejection() { globalManager.reviewQuotaRejections.Inc() }

func RecordSyncRequestCreated()  { globalManager.syncRequestsCreated.Inc() }
func RecordSyncRequestAccepted() { globalManager.syncRequestsAccepted.Inc() }
func RecordSyncRequestRejected() { globalManager.syncRequestsRejected.Inc() }
func RecordSyncPairRemoved()     { globalManager.syncPairsRemoved.Inc() }

func UpdateUsersTotal(count int)       { globalManager.usersTotal.Set(float64(count)) }
func UpdateSubmissionsTotal(count int) { globalManager.submissionsTotal.Set(float64(count)) }

func UpdateQueueSize(size int)         { globalManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }
func UpdateWorkerCount(count int)      { globalManager.workerCount.Set(float64(count)) }

func RecordActivityEvent()     { globalManager.activityEvents.Inc() }
func RecordActivityDuplicate() { globalManager.activityDuplicates.Inc() }
func RecordActivityDropped()   { globalManager.activityDropped.Inc() }
func RecordActivityLatency(latencyMs float64) {
	globalManager.activityLatency.Observe(latencyMs)
}
func RecordWorkerError() { globalManager.workerErrors.Inc() }

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
