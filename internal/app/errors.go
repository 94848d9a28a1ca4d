package service

import "errors"

// Sentinel kinds for workflow errors. Not-found conditions surface as
// repository.ErrNotFound.
var (
	// ErrValidation marks malformed input: rating out of bounds, feedback
	// too short, missing required fields.
	ErrValidation = errors.New("invalid input")

	// ErrReviewQuota marks a review against a submission that already has
	// its required number of reviews.
	ErrReviewQuota = errors.New("submission already has enough reviews")

	// ErrSyncResponded marks a response to a sync request that is already
	// in a terminal state.
	ErrSyncResponded = errors.New("sync request already handled")
)
