package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the GOSHELL_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("GOSHELL_DIR"); v != "" {
		cfg.StartDir = v
	}
	if v := os.Getenv("GOSHELL_DOWNLOADS"); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv("GOSHELL_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("GOSHELL_OVERWRITE"); v != "" {
		if mode, err := ParseOverwriteMode(v); err == nil {
			cfg.Overwrite = mode
		}
	}
	if v := envInt("GOSHELL_PROGRESS_INTERVAL"); v > 0 {
		cfg.ProgressInterval = secondsDuration(v)
	}
	if v := envInt("GOSHELL_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if envBool("GOSHELL_TIMESTAMPS") {
		cfg.Timestamps = true
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
