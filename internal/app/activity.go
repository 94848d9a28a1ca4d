package service

import (
	"context"
	"fmt"

	"github.com/okian/dojo/internal/domain/model"
	"github.com/okian/dojo/pkg/logger"
	"github.com/okian/dojo/pkg/metrics"
)

// activityRecorder consumes activity events off the queue. It feeds the
// activity log; losing an event never affects workflow state.
type activityRecorder struct {
	logger logger.Logger
}

func (r *activityRecorder) Record(ctx context.Context, e model.Activity) error {
	r.logger.Info(ctx, string(e.Kind),
		logger.String("eventID", e.EventID),
		logger.Int64("actorID", e.ActorID),
		logger.Int64("subjectID", e.SubjectID),
		logger.Int("points", e.Points),
		logger.Int("xp", e.XP),
	)
	return nil
}

// emit publishes an activity event. Event ids are deterministic per
// transition so a retried emission is suppressed by the deduper.
// Best-effort: a full queue drops the event.
func (s *Service) emit(ctx context.Context, e model.Activity) {
	e.EventID = fmt.Sprintf("%s:%d", e.Kind, e.SubjectID)
	if s.deduper.SeenAndRecord(ctx, e.EventID) {
		metrics.RecordActivityDuplicate()
		return
	}
	if !s.queue.Enqueue(ctx, e) {
		// Allow a later retry of the same transition.
		s.deduper.Unrecord(ctx, e.EventID)
		s.logger.Debug(ctx, "activity event dropped",
			logger.String("eventID", e.EventID),
		)
	}
}
