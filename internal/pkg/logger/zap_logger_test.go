package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsolatedLogger_WritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "assistant.log")

	l := NewIsolatedLogger(logPath)
	l.Info("Socket", "connection opened", map[string]interface{}{"turn": 1})
	_ = l.Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "connection opened")
	assert.Contains(t, string(data), `"module":"Socket"`)
}

func TestNewIsolatedLogger_DropsDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "assistant.log")

	l := NewIsolatedLogger(logPath)
	l.Debug("Socket", "frame dump", nil)
	_ = l.Sync()

	data, _ := os.ReadFile(logPath)
	assert.NotContains(t, string(data), "frame dump")
}
