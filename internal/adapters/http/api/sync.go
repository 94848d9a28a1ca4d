package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// SyncHandler handles the calendar sync handshake.
type SyncHandler struct {
	deps Dependencies
}

type createSyncRequest struct {
	ToUserID int64 `json:"to_user_id"`
}

// HandleRequests handles POST /sync/requests (create) and
// GET /sync/requests (the caller's pending inbox).
func (h *SyncHandler) HandleRequests(w http.ResponseWriter, r *http.Request) {
	const op = "api.sync_requests"
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req createSyncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if req.ToUserID < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind("missing to_user_id", ErrBadRequest))
			return
		}
		created, err := h.deps.RequestSync(r.Context(), caller, req.ToUserID)
		if err != nil {
			writeDomainError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case http.MethodGet:
		pending, err := h.deps.PendingSyncRequests(r.Context(), caller)
		if err != nil {
			writeDomainError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, pending)

	default:
		http.NotFound(w, r)
	}
}

// HandleRespond handles POST /sync/requests/{id}/accept and
// POST /sync/requests/{id}/reject.
func (h *SyncHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	const op = "api.sync_respond"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/sync/requests/")
	id, decision, ok := splitRespondPath(rest)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	req, err := h.deps.RespondSync(r.Context(), id, caller, decision == "accept")
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// splitRespondPath parses "{id}/accept" or "{id}/reject".
func splitRespondPath(rest string) (int64, string, bool) {
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id < 1 {
		return 0, "", false
	}
	if parts[1] != "accept" && parts[1] != "reject" {
		return 0, "", false
	}
	return id, parts[1], true
}

// HandlePeers handles GET /sync/peers.
func (h *SyncHandler) HandlePeers(w http.ResponseWriter, r *http.Request) {
	const op = "api.sync_peers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	peers, err := h.deps.SyncedPeers(r.Context(), caller)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, peers)
}

// HandleRemovePeer handles DELETE /sync/peers/{peerID}.
func (h *SyncHandler) HandleRemovePeer(w http.ResponseWriter, r *http.Request) {
	const op = "api.sync_remove_peer"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/sync/peers/")
	peerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || peerID < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.RemoveSyncPeer(r.Context(), caller, peerID); err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
