package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mailvault-systems/mailvault-stack/common/middleware"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/handlers"
)

// NewRouter constructs a ServeMux with relay API routes registered.
func NewRouter(h *handlers.RelayHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/publish", h.Publish)
	mux.HandleFunc("/", h.Index)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
