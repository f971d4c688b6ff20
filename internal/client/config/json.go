package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// mean "keep the default". Timeout is given in seconds.
type JsonConfig struct {
	SyncAddress    string `json:"sync_address"`
	DBPath         string `json:"db_path"`
	KeyPath        string `json:"key_path"`
	Hostname       string `json:"hostname"`
	PageSize       int    `json:"page_size"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// parseJson overlays cfg with values loaded from the JSON file at path.
// An empty path means no file is used.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.SyncAddress != "" {
		cfg.SyncAddress = jc.SyncAddress
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.KeyPath != "" {
		cfg.KeyPath = jc.KeyPath
	}
	if jc.Hostname != "" {
		cfg.Hostname = jc.Hostname
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(jc.TimeoutSeconds) * time.Second
	}

	return nil
}
