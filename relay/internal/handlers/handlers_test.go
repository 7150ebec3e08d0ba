package handlers_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailvault-systems/mailvault-stack/common/logging"
	"github.com/mailvault-systems/mailvault-stack/common/messaging"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/handlers"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/publisher"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/server"
)

type staticTokenStore struct {
	token string
}

func (s *staticTokenStore) Get(ctx context.Context, name string) (string, error) {
	return s.token, nil
}

func (s *staticTokenStore) Close() error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *messaging.MemoryQueue) {
	t.Helper()

	queue := messaging.NewMemoryQueue(time.Minute)
	log := logging.New(slog.LevelError, "text")
	pub := publisher.New(queue, &staticTokenStore{token: "T"}, "tok", log)
	h := handlers.New(pub, log)

	srv := httptest.NewServer(server.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, queue
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestPublish_EndToEnd(t *testing.T) {
	srv, queue := newTestServer(t)

	payload := `{
		"data": {
			"subject": "Happy new year!",
			"sender": "John Doe",
			"timestream": "1693561101",
			"content": "Testing"
		},
		"token": "T"
	}`

	resp := postJSON(t, srv.URL+"/publish", payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["message"], "published")
	assert.NotEmpty(t, body["message_id"])
	assert.Equal(t, 1, queue.Len())
}

func TestPublish_WrongToken(t *testing.T) {
	srv, queue := newTestServer(t)

	payload := `{
		"data": {
			"subject": "Happy new year!",
			"sender": "John Doe",
			"timestream": "1693561101",
			"content": "Testing"
		},
		"token": "wrong"
	}`

	resp := postJSON(t, srv.URL+"/publish", payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid token", body["error"])
	assert.Equal(t, 0, queue.Len())
}

func TestPublish_MissingFieldNamesFirstInOrder(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/publish", `{"data": {"subject": "S"}, "token": "T"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "sender")
}

func TestPublish_MissingData(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/publish", `{"token": "T"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "data")
}

func TestPublish_MalformedDataValue(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/publish", `{"data": "not an object", "token": "T"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublish_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/publish")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestIndex_LandingPage(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
