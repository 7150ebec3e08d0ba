package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:8081", "http://localhost:8082")

	assert.NotNil(t, c)
	assert.Equal(t, "http://localhost:8081", c.relayURL)
	assert.Equal(t, "http://localhost:8082", c.archiverURL)
	assert.NotNil(t, c.client)
	assert.Equal(t, 10*time.Second, c.client.Timeout)
}

func TestPublish_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/publish", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "secret-token", payload["token"])

		data, ok := payload["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Quarterly results", data["subject"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message":    "Event published",
			"message_id": "MAIL_EVENTS:42",
		})
	}))
	defer server.Close()

	c := New(server.URL, "")
	id, err := c.Publish("secret-token", map[string]interface{}{
		"subject":    "Quarterly results",
		"sender":     "cfo@example.com",
		"timestream": "1700000000",
		"content":    "Attached.",
	})

	require.NoError(t, err)
	assert.Equal(t, "MAIL_EVENTS:42", id)
}

func TestPublish_InvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid token"})
	}))
	defer server.Close()

	c := New(server.URL, "")
	_, err := c.Publish("wrong", map[string]interface{}{"subject": "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Invalid token")
}

func TestCount_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/count", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{"count": 17})
	}))
	defer server.Close()

	c := New("", server.URL)
	count, err := c.Count()

	require.NoError(t, err)
	assert.Equal(t, int64(17), count)
}

func TestCount_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "registry unavailable"})
	}))
	defer server.Close()

	c := New("", server.URL)
	_, err := c.Count()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
