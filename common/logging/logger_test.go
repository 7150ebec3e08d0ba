package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailvault-systems/mailvault-stack/common/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "text", ""} {
		logger := New(slog.LevelInfo, format)
		require.NotNil(t, logger)
		require.NotNil(t, logger.Logger)
	}
}

func TestWithContext_RequestID(t *testing.T) {
	logger := New(slog.LevelInfo, "json")

	// Without a request ID the underlying logger is returned unchanged.
	plain := logger.WithContext(context.Background())
	assert.Equal(t, logger.Logger, plain)

	// With a request ID a derived logger is returned.
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	derived := logger.WithContext(ctx)
	assert.NotEqual(t, logger.Logger, derived)
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, FieldService, Service("relay").Key)
	assert.Equal(t, "relay", Service("relay").Value.String())
	assert.Equal(t, FieldKey, ObjectKey("a-b.json").Key)
	assert.Equal(t, FieldStatus, Status(200).Key)
	assert.Equal(t, "", Error(nil).Value.String())
}
