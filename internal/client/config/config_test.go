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
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8888", cfg.SyncAddress)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Contains(t, cfg.DBPath, ".histkeeper")
	assert.Contains(t, cfg.KeyPath, ".histkeeper")
	assert.Contains(t, cfg.LockPath, ".histkeeper")
}

func TestJsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"sync_address": "https://sync.example.com",
		"page_size": 50,
		"timeout_seconds": 5
	}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://sync.example.com", cfg.SyncAddress)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	// untouched fields keep their defaults
	assert.Contains(t, cfg.DBPath, ".histkeeper")
}

func TestJsonMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestJsonMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
