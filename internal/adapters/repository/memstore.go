package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/dojo/internal/domain/model"
	"github.com/okian/dojo/pkg/metrics"
)

// In-memory Store implementation.
//
// One mutex guards all collections: every exported operation is a single
// critical section, so multi-field mutations (review counting, XP + level)
// can never be observed half-applied. Identifier sequences are
// per-collection.

const defaultXPPerLevel = 1000

// MemStore keeps all records in process memory.
type MemStore struct {
	mu sync.RWMutex

	users       map[int64]model.User
	assignments map[int64]model.Assignment
	submissions map[int64]model.Submission
	reviews     map[int64]model.Review
	syncs       map[int64]model.SyncRequest

	// Per-collection identifier sequences.
	userSeq       int64
	assignmentSeq int64
	submissionSeq int64
	reviewSeq     int64
	syncSeq       int64

	levelFor func(totalXP int) int
	now      func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		users:       make(map[int64]model.User),
		assignments: make(map[int64]model.Assignment),
		submissions: make(map[int64]model.Submission),
		reviews:     make(map[int64]model.Review),
		syncs:       make(map[int64]model.SyncRequest),
		levelFor:    func(totalXP int) int { return totalXP/defaultXPPerLevel + 1 },
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Users

func (s *MemStore) CreateUser(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return model.User{}, ErrUsernameTaken
		}
	}

	s.userSeq++
	u.ID = s.userSeq
	if u.Role == "" {
		u.Role = "student"
	}
	u.Points = 0
	u.TotalXP = 0
	u.Level = s.levelFor(0)
	u.CreatedAt = s.now()
	s.users[u.ID] = u

	metrics.UpdateUsersTotal(len(s.users))
	return u, nil
}

func (s *MemStore) GetUser(_ context.Context, id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemStore) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemStore) SearchUsers(_ context.Context, query string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(query)
	var out []model.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), query) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) AddUserPoints(_ context.Context, id int64, delta int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	u.Points += delta
	s.users[id] = u
	return u, nil
}

func (s *MemStore) AddUserXP(_ context.Context, id int64, delta int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	u.TotalXP += delta
	u.Level = s.levelFor(u.TotalXP)
	s.users[id] = u
	return u, nil
}

func (s *MemStore) CountUsers(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Assignments

func (s *MemStore) CreateAssignment(_ context.Context, a model.Assignment) (model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[a.AuthorID]; !ok {
		return model.Assignment{}, ErrNotFound
	}

	s.assignmentSeq++
	a.ID = s.assignmentSeq
	a.CreatedAt = s.now()
	s.assignments[a.ID] = a
	return a, nil
}

func (s *MemStore) GetAssignment(_ context.Context, id int64) (model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assignments[id]
	if !ok {
		return model.Assignment{}, ErrNotFound
	}
	return a, nil
}

func (s *MemStore) ListAssignments(_ context.Context) ([]model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (s *MemStore) ListAssignmentsByCategory(_ context.Context, category string) ([]model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Assignment
	for _, a := range s.assignments {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemStore) ListAssignmentsByDifficulty(_ context.Context, difficulty int) ([]model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Assignment
	for _, a := range s.assignments {
		if a.Difficulty == difficulty {
			out = append(out, a)
		}
	}
	return out, nil
}

// Submissions

func (s *MemStore) CreateSubmission(_ context.Context, sub model.Submission) (model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assignments[sub.AssignmentID]; !ok {
		return model.Submission{}, ErrNotFound
	}
	if _, ok := s.users[sub.AuthorID]; !ok {
		return model.Submission{}, ErrNotFound
	}

	s.submissionSeq++
	sub.ID = s.submissionSeq
	sub.Status = model.SubmissionPending
	sub.ReviewsReceived = 0
	sub.SubmittedAt = s.now()
	s.submissions[sub.ID] = sub

	metrics.UpdateSubmissionsTotal(len(s.submissions))
	return sub, nil
}

func (s *MemStore) GetSubmission(_ context.Context, id int64) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.submissions[id]
	if !ok {
		return model.Submission{}, ErrNotFound
	}
	return sub, nil
}

func (s *MemStore) ListSubmissionsByAssignment(_ context.Context, assignmentID int64) ([]model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Submission
	for _, sub := range s.submissions {
		if sub.AssignmentID == assignmentID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *MemStore) ListSubmissionsByAuthor(_ context.Context, authorID int64) ([]model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Submission
	for _, sub := range s.submissions {
		if sub.AuthorID == authorID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *MemStore) ListPendingSubmissions(_ context.Context) ([]model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Submission
	for _, sub := range s.submissions {
		if sub.Status == model.SubmissionPending {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *MemStore) RecordReview(_ context.Context, id int64) (model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[id]
	if !ok {
		return model.Submission{}, ErrNotFound
	}
	sub.ReviewsReceived++
	if sub.ReviewsReceived >= sub.ReviewsRequired {
		sub.Status = model.SubmissionCompleted
	}
	s.submissions[id] = sub
	return sub, nil
}

func (s *MemStore) CountSubmissions(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}

// Reviews

func (s *MemStore) CreateReview(_ context.Context, r model.Review) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.submissions[r.SubmissionID]; !ok {
		return model.Review{}, ErrNotFound
	}

	s.reviewSeq++
	r.ID = s.reviewSeq
	r.CreatedAt = s.now()
	s.reviews[r.ID] = r
	return r, nil
}

func (s *MemStore) GetReview(_ context.Context, id int64) (model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return model.Review{}, ErrNotFound
	}
	return r, nil
}

func (s *MemStore) ListReviewsBySubmission(_ context.Context, submissionID int64) ([]model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Review
	for _, r := range s.reviews {
		if r.SubmissionID == submissionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemStore) ListReviewsByReviewer(_ context.Context, reviewerID int64) ([]model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Review
	for _, r := range s.reviews {
		if r.ReviewerID == reviewerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Sync requests

func (s *MemStore) CreateSyncRequest(_ context.Context, r model.SyncRequest) (model.SyncRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[r.FromUserID]; !ok {
		return model.SyncRequest{}, ErrNotFound
	}
	if _, ok := s.users[r.ToUserID]; !ok {
		return model.SyncRequest{}, ErrNotFound
	}

	s.syncSeq++
	r.ID = s.syncSeq
	r.Status = model.SyncPending
	r.CreatedAt = s.now()
	s.syncs[r.ID] = r
	return r, nil
}

func (s *MemStore) GetSyncRequest(_ context.Context, id int64) (model.SyncRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.syncs[id]
	if !ok {
		return model.SyncRequest{}, ErrNotFound
	}
	return r, nil
}

func (s *MemStore) SetSyncStatus(_ context.Context, id int64, status model.SyncStatus) (model.SyncRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.syncs[id]
	if !ok {
		return model.SyncRequest{}, ErrNotFound
	}
	r.Status = status
	s.syncs[id] = r
	return r, nil
}

func (s *MemStore) ListSyncRequestsTo(_ context.Context, userID int64, status model.SyncStatus) ([]model.SyncRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.SyncRequest
	for _, r := range s.syncs {
		if r.ToUserID == userID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemStore) ListSyncRequestsInvolving(_ context.Context, userID int64, status model.SyncStatus) ([]model.SyncRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.SyncRequest
	for _, r := range s.syncs {
		if r.Involves(userID) && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemStore) DeleteSyncPair(_ context.Context, a, b int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, r := range s.syncs {
		if r.MatchesPair(a, b) {
			delete(s.syncs, id)
			removed++
		}
	}
	return removed, nil
}
