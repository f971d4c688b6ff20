package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// values are copied into the runtime Config. Zero values keep the defaults.
type JsonConfig struct {
	EndpointAddr         string `json:"endpoint_addr"`
	DatabaseDSN          string `json:"database_dsn"`
	SecretKey            string `json:"secret_key"`
	SessionValidityHours int    `json:"session_validity_hours"`
	PageSize             int    `json:"page_size"`
	OpenRegistration     *bool  `json:"open_registration"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config command-line flags; when neither is set
// no JSON is loaded. Read or unmarshal errors panic: the server should not
// start with a half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		config.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		config.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		config.SecretKey = jc.SecretKey
	}
	if jc.SessionValidityHours > 0 {
		config.SessionValidityDuration = time.Duration(jc.SessionValidityHours) * time.Hour
	}
	if jc.PageSize > 0 {
		config.PageSize = jc.PageSize
	}
	if jc.OpenRegistration != nil {
		config.OpenRegistration = *jc.OpenRegistration
	}
}
