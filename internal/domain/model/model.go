// Package model contains the domain records passed between layers.
package model

import "time"

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionCompleted SubmissionStatus = "completed"
)

// QualityTier classifies a review by the depth of its feedback.
type QualityTier string

const (
	TierBasic   QualityTier = "basic"
	TierQuality QualityTier = "quality"
)

// SyncStatus is the state of a calendar sync handshake.
type SyncStatus string

const (
	SyncPending  SyncStatus = "pending"
	SyncAccepted SyncStatus = "accepted"
	SyncRejected SyncStatus = "rejected"
)

// Terminal reports whether no further transitions are permitted.
func (s SyncStatus) Terminal() bool {
	return s == SyncAccepted || s == SyncRejected
}

// User is a platform member. Progression fields (Points, Level, TotalXP)
// are mutated only through the progression operations.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	Role      string    `json:"role"`
	Points    int       `json:"prp_points"`
	Level     int       `json:"skill_level"`
	TotalXP   int       `json:"total_xp"`
	CreatedAt time.Time `json:"created_at"`
}

// Assignment is an exercise posted by an author. Immutable after creation.
type Assignment struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Difficulty      int       `json:"difficulty"`
	AuthorID        int64     `json:"author_id"`
	RequiredReviews int       `json:"required_reviews"`
	CreatedAt       time.Time `json:"created_at"`
}

// Submission is a user's answer to an assignment. ReviewsRequired is a
// snapshot of the assignment's required review count at creation time.
type Submission struct {
	ID              int64            `json:"id"`
	AssignmentID    int64            `json:"assignment_id"`
	AuthorID        int64            `json:"author_id"`
	Content         string           `json:"content"`
	Status          SubmissionStatus `json:"status"`
	ReviewsReceived int              `json:"reviews_received"`
	ReviewsRequired int              `json:"reviews_required"`
	SubmittedAt     time.Time        `json:"submitted_at"`
}

// Review is one reviewer's verdict on a submission. Immutable.
type Review struct {
	ID            int64       `json:"id"`
	SubmissionID  int64       `json:"submission_id"`
	ReviewerID    int64       `json:"reviewer_id"`
	Rating        int         `json:"rating"`
	Feedback      string      `json:"feedback"`
	QualityTier   QualityTier `json:"quality_tier"`
	PointsAwarded int         `json:"points_awarded"`
	CreatedAt     time.Time   `json:"created_at"`
}

// SyncRequest is one side's offer to share calendar visibility. An accepted
// request derives a symmetric synced-peer relation between both users.
type SyncRequest struct {
	ID         int64      `json:"id"`
	FromUserID int64      `json:"from_user_id"`
	ToUserID   int64      `json:"to_user_id"`
	Status     SyncStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Involves reports whether userID is either side of the request.
func (r SyncRequest) Involves(userID int64) bool {
	return r.FromUserID == userID || r.ToUserID == userID
}

// PeerOf returns the other side of the request relative to userID.
func (r SyncRequest) PeerOf(userID int64) int64 {
	if r.FromUserID == userID {
		return r.ToUserID
	}
	return r.FromUserID
}

// MatchesPair reports whether the request connects a and b in either
// direction.
func (r SyncRequest) MatchesPair(a, b int64) bool {
	return (r.FromUserID == a && r.ToUserID == b) ||
		(r.FromUserID == b && r.ToUserID == a)
}
