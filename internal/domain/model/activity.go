package model

import "time"

// ActivityKind names the workflow transitions published on the activity feed.
type ActivityKind string

const (
	ActivityReviewRecorded      ActivityKind = "review_recorded"
	ActivitySubmissionCompleted ActivityKind = "submission_completed"
	ActivitySyncAccepted        ActivityKind = "sync_accepted"
)

// Activity is a fire-and-forget event emitted after a workflow mutation.
// EventID is unique per emission and used for at-most-once processing.
type Activity struct {
	EventID    string
	Kind       ActivityKind
	ActorID    int64
	SubjectID  int64
	Points     int
	XP         int
	OccurredAt time.Time
}
