package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// SubmissionsHandler handles submission creation and the reviewer queue.
type SubmissionsHandler struct {
	deps Dependencies
}

type createSubmissionRequest struct {
	AssignmentID int64  `json:"assignment_id"`
	Content      string `json:"content"`
}

func (req createSubmissionRequest) validate() error {
	switch {
	case req.AssignmentID < 1:
		return NewKind("missing assignment_id", ErrBadRequest)
	case strings.TrimSpace(req.Content) == "":
		return NewKind("missing content", ErrBadRequest)
	}
	return nil
}

// HandleCreate handles POST /submissions.
func (h *SubmissionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_submission"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sub, err := h.deps.CreateSubmission(r.Context(), req.AssignmentID, caller, req.Content)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// HandleMine handles GET /submissions/mine.
func (h *SubmissionsHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_own_submissions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	subs, err := h.deps.ListSubmissionsByAuthor(r.Context(), caller)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// HandleToReview handles GET /submissions/to-review: the caller's queue of
// submissions eligible for their review.
func (h *SubmissionsHandler) HandleToReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_reviewable"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	subs, err := h.deps.PendingReviewsFor(r.Context(), caller)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// HandleByAssignment handles GET /submissions/assignment/{id}.
func (h *SubmissionsHandler) HandleByAssignment(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_submissions_by_assignment"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if _, err := callerID(r); err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/submissions/assignment/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	subs, err := h.deps.ListSubmissionsByAssignment(r.Context(), id)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
