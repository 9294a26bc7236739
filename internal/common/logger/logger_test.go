package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_CarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.With(map[string]interface{}{"taskType": "similar"}).
		WithError(errors.New("boom")).
		Warn("stage failed", map[string]interface{}{"status": 502})

	entries := logs.All()
	assert.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "stage failed", entries[0].Message)
	assert.Equal(t, "similar", ctx["taskType"])
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 502, ctx["status"])
}

func TestNew_LevelParsing(t *testing.T) {
	assert.True(t, New("debug", "console").Core().Enabled(zap.DebugLevel))
	assert.False(t, New("warn", "json").Core().Enabled(zap.InfoLevel))
	assert.True(t, New("", "json").Core().Enabled(zap.InfoLevel))
}

func TestNewWithOutput_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flightdeck.log")

	log := NewWithOutput("info", "json", path)
	log.Info("session created", zap.String("sessionId", "abc"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"session created"`)
	assert.Contains(t, string(data), `"sessionId":"abc"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zap.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zap.InfoLevel, parseLevel(""))
}

func TestZapAdapter_SkipsDisabledLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewZapAdapter(zap.New(core))

	log.Debug("hidden", map[string]interface{}{"k": 1})
	log.Info("shown", nil)

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "shown", logs.All()[0].Message)
}
