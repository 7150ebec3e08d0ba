package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Server.Port != 8082 {
		t.Errorf("Server.Port = %d, want 8082", cfg.Server.Port)
	}

	if cfg.Queue.Stream != "MAIL_EVENTS" {
		t.Errorf("Queue.Stream = %q, want %q", cfg.Queue.Stream, "MAIL_EVENTS")
	}

	if cfg.Consumer.BatchSize != 10 {
		t.Errorf("Consumer.BatchSize = %d, want 10", cfg.Consumer.BatchSize)
	}

	if cfg.Consumer.WaitTime != 20*time.Second {
		t.Errorf("Consumer.WaitTime = %v, want 20s", cfg.Consumer.WaitTime)
	}

	if cfg.Consumer.PollInterval != 5*time.Second {
		t.Errorf("Consumer.PollInterval = %v, want 5s", cfg.Consumer.PollInterval)
	}

	if cfg.OpenSearch.URL != "https://localhost:9200" {
		t.Errorf("OpenSearch.URL = %q, want %q", cfg.OpenSearch.URL, "https://localhost:9200")
	}

	if !cfg.OpenSearch.TLSSkipVerify {
		t.Error("OpenSearch.TLSSkipVerify should be true by default")
	}

	if cfg.OpenSearch.Index != "mailvault-archive" {
		t.Errorf("OpenSearch.Index = %q, want %q", cfg.OpenSearch.Index, "mailvault-archive")
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
consumer:
  batch_size: 5
  poll_interval: 1s
opensearch:
  index: archive-test
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Consumer.BatchSize != 5 {
		t.Errorf("Consumer.BatchSize = %d, want 5", cfg.Consumer.BatchSize)
	}

	if cfg.Consumer.PollInterval != time.Second {
		t.Errorf("Consumer.PollInterval = %v, want 1s", cfg.Consumer.PollInterval)
	}

	if cfg.OpenSearch.Index != "archive-test" {
		t.Errorf("OpenSearch.Index = %q, want %q", cfg.OpenSearch.Index, "archive-test")
	}

	// Values not in the file keep their defaults.
	if cfg.Server.Port != 8082 {
		t.Errorf("Server.Port = %d, want default 8082", cfg.Server.Port)
	}
}
