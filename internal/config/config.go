// Package config defines service configuration and loading.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RequiredReviews is the default review count snapshotted onto
	// assignments created without an explicit value.
	RequiredReviews int `koanf:"required_reviews"`

	// MinFeedbackLength is the minimum accepted review feedback length.
	MinFeedbackLength int `koanf:"min_feedback_length"`

	// QualityFeedbackLength is the feedback length at which a review is
	// classified as quality tier.
	QualityFeedbackLength int `koanf:"quality_feedback_length"`

	// BasicReviewPoints and QualityReviewPoints are the PRP payouts per
	// review tier.
	BasicReviewPoints   int `koanf:"basic_review_points"`
	QualityReviewPoints int `koanf:"quality_review_points"`

	// XPPerRatingPoint multiplies the mean rating into completion XP.
	XPPerRatingPoint int `koanf:"xp_per_rating_point"`

	// XPPerLevel is the XP span of a single level.
	XPPerLevel int `koanf:"xp_per_level"`

	// ActivityQueueSize bounds the in-memory activity event queue.
	ActivityQueueSize int `koanf:"activity_queue_size"`

	// WorkerCount sets the number of activity workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the activity deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		RequiredReviews:       3,
		MinFeedbackLength:     10,
		QualityFeedbackLength: 100,
		BasicReviewPoints:     10,
		QualityReviewPoints:   15,
		XPPerRatingPoint:      20,
		XPPerLevel:            1000,
		ActivityQueueSize:     10_000,
		WorkerCount:           4,
		DedupeSize:            50_000,
	}
}
