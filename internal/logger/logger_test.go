package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": DEBUG,
		"INFO":  INFO,
		"":      INFO,
		"warn":  WARN,
		"error": ERROR,
		"none":  NONE,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(WARN)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(INFO)
	})

	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warn("shown %d", 3)
	Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 3")
	assert.Contains(t, out, "[ERROR] shown 4")
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "spamcheck.log")
	require.NoError(t, Init(path, "debug"))
	t.Cleanup(func() {
		_ = Init("", "info")
	})

	Debug("model built with %d labels", 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] model built with 2 labels")
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("", "loud"))
}
