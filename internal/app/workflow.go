package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/dojo/internal/domain/model"
	"github.com/okian/dojo/internal/domain/scoring"
	"github.com/okian/dojo/internal/domain/types"
	"github.com/okian/dojo/pkg/logger"
	"github.com/okian/dojo/pkg/metrics"
)

// Users

// RegisterUser creates a user record. Progression starts at zero points,
// zero XP, level one.
func (s *Service) RegisterUser(ctx context.Context, username, bio, role string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.User{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	return s.store.CreateUser(ctx, model.User{
		Username: username,
		Bio:      bio,
		Role:     role,
	})
}

// GetUser returns a user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.store.GetUser(ctx, id)
}

// SearchUsers matches usernames case-insensitively on a substring.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}
	return s.store.SearchUsers(ctx, query)
}

// Assignments

// CreateAssignment posts a new assignment. requiredReviews of zero or less
// falls back to the service default.
func (s *Service) CreateAssignment(ctx context.Context, authorID int64, title, description, category string, difficulty, requiredReviews int) (model.Assignment, error) {
	switch {
	case strings.TrimSpace(title) == "":
		return model.Assignment{}, fmt.Errorf("%w: title is required", ErrValidation)
	case strings.TrimSpace(description) == "":
		return model.Assignment{}, fmt.Errorf("%w: description is required", ErrValidation)
	case strings.TrimSpace(category) == "":
		return model.Assignment{}, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if requiredReviews <= 0 {
		requiredReviews = s.requiredReviews
	}
	return s.store.CreateAssignment(ctx, model.Assignment{
		Title:           title,
		Description:     description,
		Category:        category,
		Difficulty:      difficulty,
		AuthorID:        authorID,
		RequiredReviews: requiredReviews,
	})
}

// GetAssignment returns an assignment by id.
func (s *Service) GetAssignment(ctx context.Context, id int64) (model.Assignment, error) {
	return s.store.GetAssignment(ctx, id)
}

// ListAssignments returns every assignment, optionally filtered.
func (s *Service) ListAssignments(ctx context.Context) ([]model.Assignment, error) {
	return s.store.ListAssignments(ctx)
}

// ListAssignmentsByCategory returns assignments in a category.
func (s *Service) ListAssignmentsByCategory(ctx context.Context, category string) ([]model.Assignment, error) {
	return s.store.ListAssignmentsByCategory(ctx, category)
}

// ListAssignmentsByDifficulty returns assignments at a difficulty level.
func (s *Service) ListAssignmentsByDifficulty(ctx context.Context, difficulty int) ([]model.Assignment, error) {
	return s.store.ListAssignmentsByDifficulty(ctx, difficulty)
}

// Submissions

// CreateSubmission submits work against an assignment. The assignment's
// required review count is snapshotted onto the submission at creation.
func (s *Service) CreateSubmission(ctx context.Context, assignmentID, authorID int64, content string) (model.Submission, error) {
	if strings.TrimSpace(content) == "" {
		return model.Submission{}, fmt.Errorf("%w: content is required", ErrValidation)
	}
	assignment, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return model.Submission{}, err
	}
	sub, err := s.store.CreateSubmission(ctx, model.Submission{
		AssignmentID:    assignmentID,
		AuthorID:        authorID,
		Content:         content,
		ReviewsRequired: assignment.RequiredReviews,
	})
	if err != nil {
		return model.Submission{}, err
	}
	metrics.RecordSubmissionCreated()
	return sub, nil
}

// GetSubmission returns a submission by id.
func (s *Service) GetSubmission(ctx context.Context, id int64) (model.Submission, error) {
	return s.store.GetSubmission(ctx, id)
}

// ListSubmissionsByAssignment returns an unordered snapshot.
func (s *Service) ListSubmissionsByAssignment(ctx context.Context, assignmentID int64) ([]model.Submission, error) {
	return s.store.ListSubmissionsByAssignment(ctx, assignmentID)
}

// ListSubmissionsByAuthor returns an unordered snapshot.
func (s *Service) ListSubmissionsByAuthor(ctx context.Context, authorID int64) ([]model.Submission, error) {
	return s.store.ListSubmissionsByAuthor(ctx, authorID)
}

// Reviews

// SubmitReview records one reviewer's verdict on a submission and applies
// every progression effect as a single unit: the review record, the ledger
// increment, the reviewer's points, and on completion the author's XP.
// Concurrent reviews of the same submission serialize on a per-submission
// lock so a near-complete submission cannot double-award.
func (s *Service) SubmitReview(ctx context.Context, submissionID, reviewerID int64, rating int, feedback string) (model.Review, error) {
	if !scoring.ValidRating(rating) {
		return model.Review{}, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, scoring.MinRating, scoring.MaxRating)
	}
	if len(strings.TrimSpace(feedback)) < s.minFeedbackLength {
		return model.Review{}, fmt.Errorf("%w: feedback must be at least %d characters", ErrValidation, s.minFeedbackLength)
	}

	lock := s.subLocks.lock(submissionID)
	lock.Lock()
	defer lock.Unlock()

	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return model.Review{}, err
	}
	if sub.ReviewsReceived >= sub.ReviewsRequired {
		metrics.RecordReviewQuotaRejection()
		return model.Review{}, ErrReviewQuota
	}
	// Resolve the reviewer up front so no partial effect can be left
	// behind by an unknown reviewer id.
	if _, err := s.store.GetUser(ctx, reviewerID); err != nil {
		return model.Review{}, err
	}

	tier, points := s.rules.Classify(feedback)

	review, err := s.store.CreateReview(ctx, model.Review{
		SubmissionID:  submissionID,
		ReviewerID:    reviewerID,
		Rating:        rating,
		Feedback:      feedback,
		QualityTier:   tier,
		PointsAwarded: points,
	})
	if err != nil {
		return model.Review{}, err
	}

	sub, err = s.store.RecordReview(ctx, submissionID)
	if err != nil {
		return model.Review{}, err
	}
	if _, err := s.store.AddUserPoints(ctx, reviewerID, points); err != nil {
		return model.Review{}, err
	}

	metrics.RecordReviewSubmitted(tier == model.TierQuality, points)
	s.emit(ctx, model.Activity{
		Kind:      model.ActivityReviewRecorded,
		ActorID:   reviewerID,
		SubjectID: review.ID,
		Points:    points,
	})

	if sub.Status == model.SubmissionCompleted {
		if err := s.completeSubmission(ctx, sub); err != nil {
			return model.Review{}, err
		}
	}
	return review, nil
}

// completeSubmission awards the author XP from the mean rating of the
// collected reviews. Called with the submission's lock held.
func (s *Service) completeSubmission(ctx context.Context, sub model.Submission) error {
	reviews, err := s.store.ListReviewsBySubmission(ctx, sub.ID)
	if err != nil {
		return err
	}
	ratings := make([]int, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	xp := s.rules.CompletionXP(ratings)
	if _, err := s.store.AddUserXP(ctx, sub.AuthorID, xp); err != nil {
		return err
	}

	metrics.RecordSubmissionCompleted(xp)
	s.logger.Info(ctx, "submission completed",
		logger.Int64("submissionID", sub.ID),
		logger.Int64("authorID", sub.AuthorID),
		logger.Int("xp", xp),
	)
	s.emit(ctx, model.Activity{
		Kind:      model.ActivitySubmissionCompleted,
		ActorID:   sub.AuthorID,
		SubjectID: sub.ID,
		XP:        xp,
	})
	return nil
}

// ListReviewsBySubmission returns every review for a submission.
func (s *Service) ListReviewsBySubmission(ctx context.Context, submissionID int64) ([]model.Review, error) {
	return s.store.ListReviewsBySubmission(ctx, submissionID)
}

// PendingReviewsFor derives the user's review queue: pending submissions
// that are not the user's own, still need reviews, and have not already
// been reviewed by the user. Recomputed fresh on every call; nothing is
// reserved for a reviewer.
func (s *Service) PendingReviewsFor(ctx context.Context, userID int64) ([]model.Submission, error) {
	own, err := s.store.ListReviewsByReviewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviewed := make(map[int64]struct{}, len(own))
	for _, r := range own {
		reviewed[r.SubmissionID] = struct{}{}
	}

	pending, err := s.store.ListPendingSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Submission, 0, len(pending))
	for _, sub := range pending {
		if sub.AuthorID == userID {
			continue
		}
		if sub.ReviewsReceived >= sub.ReviewsRequired {
			continue
		}
		if _, ok := reviewed[sub.ID]; ok {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

// UserStats aggregates a user's progression with their submission and
// review counts and the mean rating they have handed out.
func (s *Service) UserStats(ctx context.Context, userID int64) (types.UserStats, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return types.UserStats{}, err
	}
	subs, err := s.store.ListSubmissionsByAuthor(ctx, userID)
	if err != nil {
		return types.UserStats{}, err
	}
	reviews, err := s.store.ListReviewsByReviewer(ctx, userID)
	if err != nil {
		return types.UserStats{}, err
	}

	var avg float64
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		avg = float64(sum) / float64(len(reviews))
	}

	return types.UserStats{
		PRPPoints:        user.Points,
		SkillLevel:       user.Level,
		TotalXP:          user.TotalXP,
		SubmissionsCount: len(subs),
		ReviewsCount:     len(reviews),
		AverageRating:    avg,
	}, nil
}
