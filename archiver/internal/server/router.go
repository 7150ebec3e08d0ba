package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mailvault-systems/mailvault-stack/archiver/internal/handlers"
	"github.com/mailvault-systems/mailvault-stack/common/middleware"
)

// NewRouter constructs a ServeMux with archiver API routes registered.
func NewRouter(h *handlers.ArchiverHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/count", h.Count)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
