package handlers

import (
	"net/http"

	"github.com/mailvault-systems/mailvault-stack/archiver/internal/registry"
	"github.com/mailvault-systems/mailvault-stack/common/httputil"
)

// ArchiverHandler serves the archiver's query surface.
type ArchiverHandler struct {
	registry *registry.Registry
}

// New creates an ArchiverHandler reading from the given registry.
func New(reg *registry.Registry) *ArchiverHandler {
	return &ArchiverHandler{registry: reg}
}

// Count handles GET /count, returning the number of messages archived since
// process start.
func (h *ArchiverHandler) Count(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{
		"count": h.registry.Read(),
	})
}

// Health reports liveness.
func (h *ArchiverHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness.
func (h *ArchiverHandler) Ready(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
