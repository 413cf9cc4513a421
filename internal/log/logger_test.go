package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponentAddsField(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("voice")
	l.Debug().Str("locale", "hi-IN").Msg("restart")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "voice", entry["component"])
	assert.Equal(t, "mukthiguru", entry["service"])
	assert.Equal(t, "hi-IN", entry["locale"])
	assert.Equal(t, "restart", entry["message"])
}

func TestWithComponentChains(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	WithComponent("mcp").Info().Str("version", "dev").Msg("serving")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mcp", entry["component"])
	assert.Equal(t, "dev", entry["version"])
}

func TestConfigureLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := Base()
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestOpenFileCreatesParentDirs(t *testing.T) {
	path := t.TempDir() + "/nested/dir/mukthiguru.log"
	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}
