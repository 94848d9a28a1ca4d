package api

import (
	"encoding/json"
	"net/http"
)

// StatsProvider exposes service-level statistics for monitoring.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves user progression stats and service stats.
type StatsHandler struct {
	deps    Dependencies
	service StatsProvider
}

// HandleUserStats handles GET /me/stats.
func (h *StatsHandler) HandleUserStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	caller, err := callerID(r)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	stats, err := h.deps.UserStats(r.Context(), caller)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleServiceStats handles GET /stats.
func (h *StatsHandler) HandleServiceStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(h.service.GetStats())
}
