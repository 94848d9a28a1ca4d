package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// UsersHandler handles user registration and search.
type UsersHandler struct {
	deps Dependencies
}

type registerRequest struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Role     string `json:"role"`
}

func (req registerRequest) validate() error {
	if strings.TrimSpace(req.Username) == "" {
		return NewKind("api.register_user", ErrBadRequest)
	}
	return nil
}

// HandleUsers handles POST /users.
func (h *UsersHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_user"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	user, err := h.deps.RegisterUser(r.Context(), req.Username, req.Bio, req.Role)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleSearch handles GET /users/search?q=.
func (h *UsersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_users"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if _, err := callerID(r); err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	users, err := h.deps.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, users)
}
