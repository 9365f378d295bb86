package config

import (
	"encoding/json"
	"os"

	"github.com/josselin06/Borobo-stage-2025/internal/flagx"
	"github.com/josselin06/Borobo-stage-2025/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JSONConfig struct {
	BackendBaseURL  string         `json:"backend_base_url"`
	RefreshInterval timex.Duration `json:"refresh_interval"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	DownloadDir     string         `json:"download_dir"`
	LogLevel        string         `json:"log_level"`
}

// parseJSON overlays Config with values loaded from a JSON file given via
// the -c or -config flags. Absent flags mean no JSON is loaded. Only fields
// actually present in the file override the current values.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendBaseURL != "" {
		cfg.BackendBaseURL = jc.BackendBaseURL
	}
	if jc.RefreshInterval.Duration != 0 {
		cfg.RefreshInterval = jc.RefreshInterval.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
