// Package scoring holds the progression math: review quality tiering,
// reviewer point payouts, completion XP and level computation.
package scoring

import (
	"math"

	"github.com/okian/dojo/internal/domain/model"
)

// Default progression constants.
const (
	defaultQualityFeedbackLength = 100
	defaultBasicPoints           = 10
	defaultQualityPoints         = 15
	defaultXPPerRatingPoint      = 20
	defaultXPPerLevel            = 1000

	// Rating bounds accepted on a review.
	MinRating = 1
	MaxRating = 5
)

// Option applies a configuration option to Rules.
type Option func(*Rules)

// WithQualityFeedbackLength sets the feedback length at which a review is
// classified as quality tier.
func WithQualityFeedbackLength(n int) Option {
	return func(r *Rules) {
		if n > 0 {
			r.qualityFeedbackLength = n
		}
	}
}

// WithReviewPoints sets the point payout for basic and quality reviews.
func WithReviewPoints(basic, quality int) Option {
	return func(r *Rules) {
		if basic > 0 && quality >= basic {
			r.basicPoints = basic
			r.qualityPoints = quality
		}
	}
}

// WithXPPerRatingPoint sets the XP multiplier applied to the mean rating
// when a submission completes.
func WithXPPerRatingPoint(n int) Option {
	return func(r *Rules) {
		if n > 0 {
			r.xpPerRatingPoint = n
		}
	}
}

// WithXPPerLevel sets the XP span of a single level.
func WithXPPerLevel(n int) Option {
	return func(r *Rules) {
		if n > 0 {
			r.xpPerLevel = n
		}
	}
}

// Rules computes progression outcomes. The zero value is not usable;
// construct with NewRules.
type Rules struct {
	qualityFeedbackLength int
	basicPoints           int
	qualityPoints         int
	xpPerRatingPoint      int
	xpPerLevel            int
}

// NewRules creates progression rules with the default payouts.
func NewRules(opts ...Option) *Rules {
	r := &Rules{
		qualityFeedbackLength: defaultQualityFeedbackLength,
		basicPoints:           defaultBasicPoints,
		qualityPoints:         defaultQualityPoints,
		xpPerRatingPoint:      defaultXPPerRatingPoint,
		xpPerLevel:            defaultXPPerLevel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify returns the quality tier for a piece of feedback and the points
// it pays. Tier depends solely on feedback length; the rating does not
// affect the reviewer's payout.
func (r *Rules) Classify(feedback string) (model.QualityTier, int) {
	if len(feedback) >= r.qualityFeedbackLength {
		return model.TierQuality, r.qualityPoints
	}
	return model.TierBasic, r.basicPoints
}

// CompletionXP returns the XP awarded to a submission's author once it has
// collected all required reviews: floor(mean(ratings) * xpPerRatingPoint).
// Returns 0 for an empty rating list.
func (r *Rules) CompletionXP(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating
	}
	mean := float64(sum) / float64(len(ratings))
	return int(math.Floor(mean * float64(r.xpPerRatingPoint)))
}

// Level returns the level implied by a total XP amount. Level is always a
// pure function of XP; it is never tracked independently.
func (r *Rules) Level(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/r.xpPerLevel + 1
}

// ValidRating reports whether a rating is inside the accepted bounds.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
