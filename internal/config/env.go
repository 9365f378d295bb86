package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names. A .env file in the working directory is loaded
// first; real environment variables win over the file.
const (
	envBackendBaseURL  = "BOROBO_BACKEND_URL"
	envRefreshInterval = "BOROBO_REFRESH_INTERVAL"
	envRequestTimeout  = "BOROBO_REQUEST_TIMEOUT"
	envDownloadDir     = "BOROBO_DOWNLOAD_DIR"
	envLogLevel        = "BOROBO_LOG_LEVEL"
)

// parseEnv overlays Config with values from the environment. Durations accept
// either Go duration syntax ("45s") or a bare number of seconds.
func parseEnv(cfg *Config) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	if v := os.Getenv(envBackendBaseURL); v != "" {
		cfg.BackendBaseURL = v
	}
	if v := os.Getenv(envRefreshInterval); v != "" {
		if d, ok := parseDuration(v); ok {
			cfg.RefreshInterval = d
		}
	}
	if v := os.Getenv(envRequestTimeout); v != "" {
		if d, ok := parseDuration(v); ok {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv(envDownloadDir); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

func parseDuration(v string) (time.Duration, bool) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, true
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}
