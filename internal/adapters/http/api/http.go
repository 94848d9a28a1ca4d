// Package api declares the HTTP contracts and route registration for the
// review platform core.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/dojo/internal/adapters/repository"
	service "github.com/okian/dojo/internal/app"
	"github.com/okian/dojo/internal/domain/model"
	"github.com/okian/dojo/internal/domain/types"
)

// Dependencies bundles everything the handler layer needs from the
// workflow service. Keeping this an interface decouples the HTTP surface
// from the service implementation.
type Dependencies interface {
	// Users
	RegisterUser(ctx context.Context, username, bio, role string) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	SearchUsers(ctx context.Context, query string) ([]model.User, error)

	// Assignments
	CreateAssignment(ctx context.Context, authorID int64, title, description, category string, difficulty, requiredReviews int) (model.Assignment, error)
	ListAssignments(ctx context.Context) ([]model.Assignment, error)
	ListAssignmentsByCategory(ctx context.Context, category string) ([]model.Assignment, error)
	ListAssignmentsByDifficulty(ctx context.Context, difficulty int) ([]model.Assignment, error)

	// Submissions
	CreateSubmission(ctx context.Context, assignmentID, authorID int64, content string) (model.Submission, error)
	ListSubmissionsByAssignment(ctx context.Context, assignmentID int64) ([]model.Submission, error)
	ListSubmissionsByAuthor(ctx context.Context, authorID int64) ([]model.Submission, error)
	PendingReviewsFor(ctx context.Context, userID int64) ([]model.Submission, error)

	// Reviews
	SubmitReview(ctx context.Context, submissionID, reviewerID int64, rating int, feedback string) (model.Review, error)
	ListReviewsBySubmission(ctx context.Context, submissionID int64) ([]model.Review, error)

	// Stats
	UserStats(ctx context.Context, userID int64) (types.UserStats, error)

	// Sync handshake
	RequestSync(ctx context.Context, fromUserID, toUserID int64) (model.SyncRequest, error)
	RespondSync(ctx context.Context, requestID, actingUserID int64, accept bool) (model.SyncRequest, error)
	PendingSyncRequests(ctx context.Context, userID int64) ([]model.SyncRequest, error)
	SyncedPeers(ctx context.Context, userID int64) ([]model.User, error)
	RemoveSyncPeer(ctx context.Context, userID, peerID int64) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	users       *UsersHandler
	assignments *AssignmentsHandler
	submissions *SubmissionsHandler
	reviews     *ReviewsHandler
	sync        *SyncHandler
	stats       *StatsHandler
	health      *HealthHandler
}

// NewServer creates the API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		users:       &UsersHandler{deps: deps},
		assignments: &AssignmentsHandler{deps: deps},
		submissions: &SubmissionsHandler{deps: deps},
		reviews:     &ReviewsHandler{deps: deps},
		sync:        &SyncHandler{deps: deps},
		stats:       &StatsHandler{deps: deps, service: statsProvider},
		health:      &HealthHandler{},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.health.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.stats.HandleServiceStats, "stats"))
	mux.HandleFunc("/me/stats", MetricsMiddleware(s.stats.HandleUserStats, "me_stats"))

	mux.HandleFunc("/users", MetricsMiddleware(s.users.HandleUsers, "users"))
	mux.HandleFunc("/users/search", MetricsMiddleware(s.users.HandleSearch, "users_search"))

	mux.HandleFunc("/assignments", MetricsMiddleware(s.assignments.HandleAssignments, "assignments"))

	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissions.HandleCreate, "submissions"))
	mux.HandleFunc("/submissions/mine", MetricsMiddleware(s.submissions.HandleMine, "submissions_mine"))
	mux.HandleFunc("/submissions/to-review", MetricsMiddleware(s.submissions.HandleToReview, "submissions_to_review"))
	mux.HandleFunc("/submissions/assignment/", MetricsMiddleware(s.submissions.HandleByAssignment, "submissions_by_assignment"))

	mux.HandleFunc("/reviews", MetricsMiddleware(s.reviews.HandleCreate, "reviews"))
	mux.HandleFunc("/reviews/submission/", MetricsMiddleware(s.reviews.HandleBySubmission, "reviews_by_submission"))

	mux.HandleFunc("/sync/requests", MetricsMiddleware(s.sync.HandleRequests, "sync_requests"))
	mux.HandleFunc("/sync/requests/", MetricsMiddleware(s.sync.HandleRespond, "sync_respond"))
	mux.HandleFunc("/sync/peers", MetricsMiddleware(s.sync.HandlePeers, "sync_peers"))
	mux.HandleFunc("/sync/peers/", MetricsMiddleware(s.sync.HandleRemovePeer, "sync_remove_peer"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates workflow errors to HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken", err)
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrReviewQuota):
		writeError(w, http.StatusBadRequest, "review_quota", err)
	case errors.Is(err, service.ErrSyncResponded):
		writeError(w, http.StatusConflict, "already_handled", err)
	case errors.Is(err, ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
