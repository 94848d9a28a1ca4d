package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// ReviewsHandler handles review creation and listing.
type ReviewsHandler struct {
	deps Dependencies
}

type createReviewRequest struct {
	SubmissionID int64  `json:"submission_id"`
	Rating       int    `json:"rating"`
	Feedback     string `json:"feedback"`
}

func (req createReviewRequest) validate() error {
	switch {
	case req.SubmissionID < 1:
		return NewKind("missing submission_id", ErrBadRequest)
	case req.Rating < 1 || req.Rating > 5:
		return NewKind("rating must be between 1 and 5", ErrBadRequest)
	case strings.TrimSpace(req.Feedback) == "":
		return NewKind("missing feedback", ErrBadRequest)
	}
	return nil
}

// HandleCreate handles POST /reviews.
func (h *ReviewsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_review"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	review, err := h.deps.SubmitReview(r.Context(), req.SubmissionID, caller, req.Rating, req.Feedback)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// HandleBySubmission handles GET /reviews/submission/{id}.
func (h *ReviewsHandler) HandleBySubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_reviews_by_submission"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if _, err := callerID(r); err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/reviews/submission/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	reviews, err := h.deps.ListReviewsBySubmission(r.Context(), id)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
