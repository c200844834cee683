package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.ICE.Servers)
	assert.Equal(t, 30*time.Second, cfg.Call.NegotiationTimeout)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Media.Audio)
	assert.Equal(t, 30.0, cfg.Media.FrameRate)
	assert.Equal(t, 50, cfg.Relay.RateLimit)
}

func TestFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: debug
signaling:
  url: ws://relay.test/api/ws/signal
call:
  negotiation_timeout: 0s
ice:
  servers:
    - stun:a.test:3478
    - stun:b.test:3478
`), 0o600))
	t.Setenv("COUNSEL_API_BASE_URL", "https://api.test")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, "ws://relay.test/api/ws/signal", cfg.Signaling.URL)
	assert.Zero(t, cfg.Call.NegotiationTimeout)
	assert.Len(t, cfg.ICE.Servers, 2)
	assert.Equal(t, "https://api.test", cfg.API.BaseURL)
}
