package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", true)
	defer Init("info", false)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	WithContext(ctx).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "WARN", false)
	defer Init("info", false)

	Info("dropped")
	assert.Zero(t, buf.Len(), "info should be filtered at warn level")
	Warn("kept")
	assert.NotZero(t, buf.Len(), "warn should be logged")
}
