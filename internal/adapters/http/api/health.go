package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/dojo/pkg/metrics"
)

// HealthHandler serves the metrics endpoint.
type HealthHandler struct{}

// HandleHealth handles GET /healthz, serving Prometheus metrics from the
// custom registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
