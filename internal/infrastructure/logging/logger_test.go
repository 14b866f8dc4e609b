package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wcar.log")

	logger, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Component("capture").Info("Window captured", zap.String("process", "cmd"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"capture"`)
	assert.Contains(t, string(data), `"process":"cmd"`)
	assert.Contains(t, string(data), `"message":"Window captured"`)
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wcar.log")

	logger, err := New(Config{Level: "warn", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil).Logger)

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.Component("x").Info("ok") })

	l := NewDefault()
	assert.Same(t, l, OrNop(l))
}

func TestDurationsAreHumanReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wcar.log")

	logger, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Info("Session saved", zap.Duration("took", 1500*time.Millisecond))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"took":"1.5s"`)
}

func TestDevelopmentLoggerUsesConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wcar.log")

	logger, err := New(Config{Level: "debug", Development: true, OutputPaths: []string{path}})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger.Debug("Window captured")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Window captured")
	assert.NotContains(t, string(data), `"message"`)
}
