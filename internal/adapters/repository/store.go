// Package repository defines the record store interface and errors.
package repository

import (
	"context"

	"github.com/okian/dojo/internal/domain/model"
)

// UserStore provides access to user records. Progression fields go through
// the Add* mutators so a record is never read-modified-written outside the
// store's critical section.
type UserStore interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	// SearchUsers does a case-insensitive substring match on username.
	SearchUsers(ctx context.Context, query string) ([]model.User, error)

	// AddUserPoints increments the user's PRP points by delta.
	AddUserPoints(ctx context.Context, id int64, delta int) (model.User, error)
	// AddUserXP increments total XP by delta and recomputes the level in
	// the same step.
	AddUserXP(ctx context.Context, id int64, delta int) (model.User, error)

	CountUsers(ctx context.Context) int
}

// AssignmentStore provides access to assignment records.
type AssignmentStore interface {
	CreateAssignment(ctx context.Context, a model.Assignment) (model.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (model.Assignment, error)
	ListAssignments(ctx context.Context) ([]model.Assignment, error)
	ListAssignmentsByCategory(ctx context.Context, category string) ([]model.Assignment, error)
	ListAssignmentsByDifficulty(ctx context.Context, difficulty int) ([]model.Assignment, error)
}

// SubmissionStore provides access to submission records.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, s model.Submission) (model.Submission, error)
	GetSubmission(ctx context.Context, id int64) (model.Submission, error)
	ListSubmissionsByAssignment(ctx context.Context, assignmentID int64) ([]model.Submission, error)
	ListSubmissionsByAuthor(ctx context.Context, authorID int64) ([]model.Submission, error)
	ListPendingSubmissions(ctx context.Context) ([]model.Submission, error)

	// RecordReview increments ReviewsReceived by exactly one and flips the
	// status to completed when the new count reaches ReviewsRequired.
	// The increment and the transition are a single atomic step.
	RecordReview(ctx context.Context, id int64) (model.Submission, error)

	CountSubmissions(ctx context.Context) int
}

// ReviewStore provides access to review records. Reviews are immutable;
// there is no update path.
type ReviewStore interface {
	CreateReview(ctx context.Context, r model.Review) (model.Review, error)
	GetReview(ctx context.Context, id int64) (model.Review, error)
	ListReviewsBySubmission(ctx context.Context, submissionID int64) ([]model.Review, error)
	ListReviewsByReviewer(ctx context.Context, reviewerID int64) ([]model.Review, error)
}

// SyncStore provides access to calendar sync handshake records.
type SyncStore interface {
	CreateSyncRequest(ctx context.Context, r model.SyncRequest) (model.SyncRequest, error)
	GetSyncRequest(ctx context.Context, id int64) (model.SyncRequest, error)
	// SetSyncStatus moves a request to a terminal state.
	SetSyncStatus(ctx context.Context, id int64, status model.SyncStatus) (model.SyncRequest, error)
	// ListSyncRequestsTo returns requests addressed to userID in the given status.
	ListSyncRequestsTo(ctx context.Context, userID int64, status model.SyncStatus) ([]model.SyncRequest, error)
	// ListSyncRequestsInvolving returns requests with userID on either side,
	// filtered by status.
	ListSyncRequestsInvolving(ctx context.Context, userID int64, status model.SyncStatus) ([]model.SyncRequest, error)
	// DeleteSyncPair removes every request connecting a and b, in any
	// status, in either direction. Returns the number of records removed.
	DeleteSyncPair(ctx context.Context, a, b int64) (int, error)
}

// Store is the full record store shared by all workflow components.
type Store interface {
	UserStore
	AssignmentStore
	SubmissionStore
	ReviewStore
	SyncStore
}
