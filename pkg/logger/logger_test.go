package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValuePairsBecomeFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Debug("debugging", "attempt", 1)
	log.Info("started", "port", "8080")
	log.Warn("Tinybird rejected click event", "status", 403)
	log.Error("failed", "error", errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 4)

	warn := entries[2]
	assert.Equal(t, zapcore.WarnLevel, warn.Level)
	assert.Equal(t, "Tinybird rejected click event", warn.Message)
	assert.EqualValues(t, 403, warn.ContextMap()["status"])

	assert.Equal(t, "started", entries[1].Message)
	assert.Equal(t, "8080", entries[1].ContextMap()["port"])
	assert.Equal(t, "boom", entries[3].ContextMap()["error"])
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core)).With("component", "sink")

	log.Info("delivered", "link_id", "l1")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "delivered", entries[0].Message)
	assert.Equal(t, map[string]interface{}{"component": "sink", "link_id": "l1"}, entries[0].ContextMap())
}
