package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/riskboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Env: config.EnvProd, Level: "info", Fallback: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Debug().Msg("hidden")
	logger.Info().Str("task_id", "7").Msg("loaded")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"task_id":"7"`)
	assert.Contains(t, out, `"message":"loaded"`)
}

func TestNew_LocalUsesConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Env: config.EnvLocal, Level: "debug", Fallback: &buf})
	require.NoError(t, err)

	logger.Debug().Msg("console line")
	assert.Contains(t, buf.String(), "console line")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "riskboard.log")
	logger, closeFn, err := New(Options{Env: config.EnvProd, Level: "warn", File: path})
	require.NoError(t, err)

	logger.Warn().Msg("disk entry")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk entry")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Env: config.EnvProd, Level: "chatty", Fallback: &buf})
	require.NoError(t, err)

	logger.Debug().Msg("dropped")
	logger.Info().Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
