package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8888", cfg.EndpointAddr)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionValidityDuration)
	assert.Equal(t, 100, cfg.PageSize)
	assert.True(t, cfg.OpenRegistration)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":9999", "-p", "25", "-t", "48"}

	cfg := LoadConfig()

	assert.Equal(t, ":9999", cfg.EndpointAddr)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 48*time.Hour, cfg.SessionValidityDuration)
}

func TestLoadConfigJsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint_addr": ":7777",
		"secret_key": "from-json",
		"open_registration": false
	}`), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	cfg := LoadConfig()

	assert.Equal(t, ":7777", cfg.EndpointAddr)
	assert.Equal(t, "from-json", cfg.SecretKey)
	assert.False(t, cfg.OpenRegistration)
	// untouched fields keep defaults
	assert.Equal(t, 100, cfg.PageSize)
}

func TestLoadConfigFlagsBeatJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr": ":7777"}`), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path, "-a", ":6666"}

	cfg := LoadConfig()
	assert.Equal(t, ":6666", cfg.EndpointAddr)
}
