package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(DEBUG))
	assert.Equal(t, slog.LevelInfo, ParseLevel(INFO))
	assert.Equal(t, slog.LevelWarn, ParseLevel(WARN))
	assert.Equal(t, slog.LevelError, ParseLevel(ERROR))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestJSONOutputCarriesService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Format: JSON, Output: &buf, Service: "library"})

	log.Debug("hidden")
	log.Info("checkout", "patron", "P1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "checkout", line["msg"])
	assert.Equal(t, "library", line[SERVICE])
	assert.Equal(t, "P1", line["patron"])
}

func TestTextIsDefault(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf}).Warn("late return", "item", "B1")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "item=B1")
}
