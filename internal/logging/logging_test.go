package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunescope.log")

	logger, err := New("info", path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("session started", zap.Int("sample_rate", 48000))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "session started", entry["msg"])
	assert.Equal(t, 48000.0, entry["sample_rate"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", "")
	assert.Error(t, err)
}

func TestForTerminal(t *testing.T) {
	logger, err := ForTerminal("debug", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))

	path := filepath.Join(t.TempDir(), "tui.log")
	logger, err = ForTerminal("debug", path)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
