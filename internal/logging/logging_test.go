package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/misparia/internal/config"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "misparia.log")
	cfg := config.Default().Log
	cfg.File = path

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Named("game").Info("session started")
	logger.Debug("hidden at info level")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "game", entry["logger"])
	assert.Equal(t, "session started", entry["msg"])
	assert.Contains(t, entry, "caller")
}

func TestNewRejectsBadLevel(t *testing.T) {
	cfg := config.Default().Log
	cfg.File = filepath.Join(t.TempDir(), "x.log")
	cfg.Level = "loud"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	p, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state/misparia/misparia.log", p)
}
