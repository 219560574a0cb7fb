package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "whensmybus", cfg.Bot.Username)
	assert.Equal(t, "bus", cfg.Bot.Network)
	assert.Equal(t, "localhost:8080", cfg.API.ListenAddress)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
bot:
  username: whensmydlr
  network: dlr
  queue: dlr-messages
api:
  listen: "0.0.0.0:9090"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "whensmydlr", cfg.Bot.Username)
	assert.Equal(t, "dlr", cfg.Bot.Network)
	assert.Equal(t, "dlr-messages", cfg.Bot.Queue)
	assert.Equal(t, "0.0.0.0:9090", cfg.API.ListenAddress)
}

func TestLoadRejectsBadNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
bot:
  username: whensmytram
  network: tram
`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("WHENSMY_BOT_NETWORK", "tube")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tube", cfg.Bot.Network)
}
