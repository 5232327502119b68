package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	JWTSecret    string

	// Pipeline tunables. Settings stored in the database override these
	// at runtime; env values are the boot defaults.
	DefaultApprovalTTL time.Duration
	SweepInterval      time.Duration
	ConfidenceFloor    int
	HighSeverityLimit  int
	HistoryRetention   int
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:        getEnv("GW_ENV", "development"),
		HTTPPort:           getEnv("GW_HTTP_PORT", "8080"),
		DatabasePath:       getEnv("GW_DB_PATH", filepath.Join("data", "gatewarden.db")),
		JWTSecret:          getEnv("GW_JWT_SECRET", ""),
		DefaultApprovalTTL: getDuration("GW_APPROVAL_TTL", 15*time.Minute),
		SweepInterval:      getDuration("GW_SWEEP_INTERVAL", time.Minute),
		ConfidenceFloor:    getInt("GW_CONFIDENCE_FLOOR", 70),
		HighSeverityLimit:  getInt("GW_HIGH_SEVERITY_LIMIT", 2),
		HistoryRetention:   getInt("GW_HISTORY_RETENTION", 10000),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return fallback
}
