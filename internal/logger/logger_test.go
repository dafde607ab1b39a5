package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat("TEXT"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: slog.LevelInfo, Format: FormatJSON, App: "animalshelter", Writer: &buf})

	l.Debug("hidden")
	l.Error("store failure", "operation", "read")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "store failure", entry["msg"])
	assert.Equal(t, "read", entry["operation"])
	assert.Equal(t, "animalshelter", entry["app"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: slog.LevelDebug, Format: FormatText, Writer: &buf})

	l.Debug("hello", "k", "v")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
	assert.NotContains(t, buf.String(), "app=")
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}

func TestNew_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Format: FormatJSON, Writer: &buf})

	ctx := WithRequestID(context.Background(), "req-42")
	l.InfoContext(ctx, "read animals")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "req-42", RequestIDFrom(ctx))
	assert.Empty(t, RequestIDFrom(context.Background()))
}
