package store

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Config holds OpenSearch archive store configuration.
type Config struct {
	URL           string
	Username      string
	Password      string
	TLSSkipVerify bool
	Index         string
}

// OpenSearchStore archives objects as documents in a single index. The
// document ID is the derived object key, so a later write with the same key
// overwrites the earlier document: accepted last-write-wins semantics.
type OpenSearchStore struct {
	client *opensearch.Client
	index  string
}

// NewOpenSearchStore creates the client and verifies connectivity.
func NewOpenSearchStore(cfg Config) (*OpenSearchStore, error) {
	osCfg := opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.TLSSkipVerify,
			},
		},
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return nil, fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	return &OpenSearchStore{client: client, index: cfg.Index}, nil
}

// Initialize creates the archive index when it does not exist yet.
func (s *OpenSearchStore) Initialize(ctx context.Context) error {
	exists := opensearchapi.IndicesExistsRequest{Index: []string{s.index}}
	res, err := exists.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	create := opensearchapi.IndicesCreateRequest{Index: s.index}
	createRes, err := create.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, createRes.Status())
	}
	return nil
}

// Put writes the object under key, overwriting any existing document with
// the same ID.
func (s *OpenSearchStore) Put(ctx context.Context, key string, body []byte) error {
	req := opensearchapi.IndexRequest{
		Index: s.index,
		// Derived keys may contain spaces; document IDs travel as a URL
		// path segment.
		DocumentID: url.PathEscape(key),
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index object %q: %w", key, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index object %q: %s", key, res.Status())
	}
	return nil
}
