package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the relay and archiver HTTP APIs.
type Client struct {
	relayURL    string
	archiverURL string
	client      *http.Client
}

func New(relayURL, archiverURL string) *Client {
	return &Client{
		relayURL:    relayURL,
		archiverURL: archiverURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type publishResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// Publish submits an event to the relay service and returns the queue
// message ID.
func (c *Client) Publish(token string, data map[string]interface{}) (string, error) {
	payload := map[string]interface{}{
		"data":  data,
		"token": token,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", c.relayURL+"/publish", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var pr publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("publish failed with status %d", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		if pr.Error != "" {
			return "", fmt.Errorf("publish failed with status %d: %s", resp.StatusCode, pr.Error)
		}
		return "", fmt.Errorf("publish failed with status %d", resp.StatusCode)
	}

	return pr.MessageID, nil
}

type countResponse struct {
	Count int64  `json:"count"`
	Error string `json:"error"`
}

// Count returns the number of events the archiver has stored since it
// started.
func (c *Client) Count() (int64, error) {
	resp, err := c.client.Get(c.archiverURL + "/count")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var cr countResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return 0, fmt.Errorf("count failed with status %d", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		if cr.Error != "" {
			return 0, fmt.Errorf("count failed with status %d: %s", resp.StatusCode, cr.Error)
		}
		return 0, fmt.Errorf("count failed with status %d", resp.StatusCode)
	}

	return cr.Count, nil
}
