package config

import (
	"os"
	"path/filepath"
	"time"
)

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultProgressDelay is how long a transfer runs before the
	// first progress report.
	DefaultProgressDelay = 1 * time.Second

	// DefaultProgressInterval is the cadence of progress reports.
	DefaultProgressInterval = 5 * time.Second
)

// Default returns a Config populated with defaults: current directory
// as the shell root, ~/Downloads as the download target, prompt-style
// overwrite policy.
func Default() *Config {
	cfg := &Config{
		Overwrite:        OverwritePrompt,
		ProgressDelay:    DefaultProgressDelay,
		ProgressInterval: DefaultProgressInterval,
	}
	if wd, err := os.Getwd(); err == nil {
		cfg.StartDir = wd
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DownloadDir = filepath.Join(home, "Downloads")
	}
	return cfg
}
