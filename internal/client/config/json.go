package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/matchbox/internal/flagx"
	"github.com/dmitrijs2005/matchbox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// mean "not set".
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DatabasePath        string         `json:"database_path"`
	CaptureSource       string         `json:"capture_source"`
	CaptureChunkSize    int            `json:"capture_chunk_size"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c or -config.
// Read or unmarshal errors panic.
func parseJson(cfg *Config) {
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

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.CaptureSource != "" {
		cfg.CaptureSource = jc.CaptureSource
	}
	if jc.CaptureChunkSize != 0 {
		cfg.CaptureChunkSize = jc.CaptureChunkSize
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
