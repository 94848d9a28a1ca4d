package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// AssignmentsHandler handles assignment creation and listing.
type AssignmentsHandler struct {
	deps Dependencies
}

type createAssignmentRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Difficulty      int    `json:"difficulty"`
	RequiredReviews int    `json:"required_reviews"`
}

func (req createAssignmentRequest) validate() error {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return NewKind("missing title", ErrBadRequest)
	case strings.TrimSpace(req.Description) == "":
		return NewKind("missing description", ErrBadRequest)
	case strings.TrimSpace(req.Category) == "":
		return NewKind("missing category", ErrBadRequest)
	}
	return nil
}

// HandleAssignments handles POST /assignments and GET /assignments with
// optional category or difficulty filters.
func (h *AssignmentsHandler) HandleAssignments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AssignmentsHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_assignment"
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	assignment, err := h.deps.CreateAssignment(r.Context(), caller, req.Title, req.Description, req.Category, req.Difficulty, req.RequiredReviews)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentsHandler) list(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_assignments"
	q := r.URL.Query()

	if category := q.Get("category"); category != "" {
		assignments, err := h.deps.ListAssignmentsByCategory(r.Context(), category)
		if err != nil {
			writeDomainError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, assignments)
		return
	}
	if raw := q.Get("difficulty"); raw != "" {
		difficulty, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		assignments, err := h.deps.ListAssignmentsByDifficulty(r.Context(), difficulty)
		if err != nil {
			writeDomainError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, assignments)
		return
	}

	assignments, err := h.deps.ListAssignments(r.Context())
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}
