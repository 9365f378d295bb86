package config

import "time"

// Config holds runtime settings for the Borobo console.
//
// Fields:
//   - BackendBaseURL: scheme://host:port of the backend REST API.
//   - RefreshInterval: period of the live-status refresh cycle.
//   - RequestTimeout: per-request timeout for backend calls.
//   - DownloadDir: directory where downloaded reports and bundles are saved.
//   - LogLevel: minimum slog level (debug, info, warn, error).
type Config struct {
	BackendBaseURL  string
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	DownloadDir     string
	LogLevel        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendBaseURL = "http://127.0.0.1:8000"
	c.RefreshInterval = 30 * time.Second
	c.RequestTimeout = 12 * time.Second
	c.DownloadDir = "downloads"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file if present), a JSON file (if given)
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
