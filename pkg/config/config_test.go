package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = parseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestJSONHandlerOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, false, slog.LevelInfo))
	logger.Debug("hidden")
	logger.Info("shown", "post_id", 7)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, float64(7), line["post_id"])
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NATS_INIT", "true")
	t.Setenv("WORKER_CONCURRENCY", "many")

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.NatsInit)
	assert.Equal(t, 10, cfg.WorkerConcurrency)
	assert.Equal(t, "supersecretjwtkey", cfg.JWTSecret)
}
