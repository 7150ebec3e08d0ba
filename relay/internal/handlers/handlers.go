package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mailvault-systems/mailvault-stack/common/httputil"
	"github.com/mailvault-systems/mailvault-stack/common/logging"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/publisher"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/validator"
)

const landingPage = `<!DOCTYPE html>
<html>
<head><title>MailVault Relay</title></head>
<body>
<h1>Welcome to MailVault</h1>
<p>POST email events to /publish. The archived count is served by the archiver's /count endpoint.</p>
</body>
</html>
`

// PublishRequest is the inbound payload for POST /publish.
type PublishRequest struct {
	Data  map[string]any `json:"data"`
	Token string         `json:"token"`
}

// RelayHandler serves the relay's HTTP surface.
type RelayHandler struct {
	publisher *publisher.Publisher
	log       *logging.Logger
}

// New creates a RelayHandler.
func New(pub *publisher.Publisher, log *logging.Logger) *RelayHandler {
	return &RelayHandler{publisher: pub, log: log}
}

// Publish handles POST /publish: 200 on success, 400 for validation errors
// (naming the first missing field), 403 for a token mismatch, 500 when the
// token lookup or the queue submission fails.
func (h *RelayHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A non-object "data" value lands here too; both shapes are the
		// same malformed-payload failure.
		httputil.WriteError(w, http.StatusBadRequest, (&validator.MissingDataError{}).Error())
		return
	}
	defer r.Body.Close()

	receipt, err := h.publisher.Publish(r.Context(), req.Data, req.Token)
	if err != nil {
		h.writePublishError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message":    "Data published to queue successfully",
		"message_id": receipt.MessageID,
	})
}

func (h *RelayHandler) writePublishError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missingData  *validator.MissingDataError
		missingField *validator.MissingFieldError
		credErr      *publisher.CredentialError
		pubErr       *publisher.PublishError
	)

	switch {
	case errors.As(err, &missingData), errors.As(err, &missingField):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, publisher.ErrInvalidToken):
		httputil.WriteError(w, http.StatusForbidden, "Invalid token")
	case errors.As(err, &credErr):
		h.log.ErrorContext(r.Context(), "publish token lookup failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to resolve publish token")
	case errors.As(err, &pubErr):
		h.log.ErrorContext(r.Context(), "queue submission failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to publish event to queue")
	default:
		h.log.ErrorContext(r.Context(), "publish failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Index serves the static landing page.
func (h *RelayHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(landingPage))
}

// Health reports liveness.
func (h *RelayHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness.
func (h *RelayHandler) Ready(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
