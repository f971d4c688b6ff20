// Package config handles configuration for the client: defaults, an optional
// JSON file, then command-line flag overrides applied by the CLI layer.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the histkeeper client.
//
// Fields:
//   - SyncAddress: base URL of the relay server.
//   - DBPath / KeyPath / LockPath: local files under the data directory.
//   - Hostname: opaque id of this machine, the sync partition key.
//   - PageSize: download/upload batch size; must match operator expectations
//     on the server but correctness does not depend on the two agreeing.
//   - Timeout: per-request HTTP timeout.
type Config struct {
	SyncAddress string
	DBPath      string
	KeyPath     string
	LockPath    string
	Hostname    string
	PageSize    int
	Timeout     time.Duration
}

// LoadDefaults populates c with sensible defaults rooted in ~/.histkeeper.
func (c *Config) LoadDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".histkeeper")

	c.SyncAddress = "http://127.0.0.1:8888"
	c.DBPath = filepath.Join(dir, "history.db")
	c.KeyPath = filepath.Join(dir, "key")
	c.LockPath = filepath.Join(dir, "sync.lock")
	c.Hostname, _ = os.Hostname()
	c.PageSize = 100
	c.Timeout = 30 * time.Second
}

// LoadConfig constructs a Config from defaults overlaid with values from the
// JSON file at path (when non-empty). Flag overrides are applied afterwards
// by the CLI.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
