// Package config defines the runtime configuration for goshell and
// provides helpers for parsing overwrite policies and port numbers.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"goshell/internal/errors"
	"goshell/util"
)

// OverwriteMode is the policy a receiving host applies before
// accepting uploaded bytes for a path that already exists.
type OverwriteMode int

const (
	// OverwritePrompt asks the operator per file.
	OverwritePrompt OverwriteMode = iota
	// OverwriteAlways silently replaces existing files.
	OverwriteAlways
	// OverwriteNever rejects uploads that would replace a file.
	OverwriteNever
)

func (m OverwriteMode) String() string {
	switch m {
	case OverwriteAlways:
		return "always"
	case OverwriteNever:
		return "never"
	default:
		return "prompt"
	}
}

// ParseOverwriteMode accepts "prompt", "always" or "never".
func ParseOverwriteMode(s string) (OverwriteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prompt":
		return OverwritePrompt, nil
	case "always":
		return OverwriteAlways, nil
	case "never":
		return OverwriteNever, nil
	default:
		return OverwritePrompt, fmt.Errorf("invalid overwrite mode %q (prompt|always|never)", s)
	}
}

// Config holds every tuneable for a goshell process.
type Config struct {
	// ── Shell ────────────────────────────────────────────────────────
	StartDir    string // working directory for the local shell and hosted sessions
	DownloadDir string // where the connect client stores downloads

	// ── Transfers ────────────────────────────────────────────────────
	Overwrite        OverwriteMode
	Password         string // cipher password; empty → prompt interactively
	ProgressDelay    time.Duration
	ProgressInterval time.Duration

	// ── Output ───────────────────────────────────────────────────────
	Verbose    int
	Timestamps bool // prefix log lines with wall-clock timestamps
}

// ParsePort parses a decimal TCP port.
func ParsePort(spec string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(spec))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", spec)
	}
	if !util.ValidPort(port) {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.StartDir != "" {
		info, err := os.Stat(c.StartDir)
		if err != nil {
			return &errors.ConfigError{
				Field:   "dir",
				Value:   c.StartDir,
				Message: "start directory is not accessible",
				Hint:    "pass an existing directory with -d",
			}
		}
		if !info.IsDir() {
			return &errors.ConfigError{
				Field:   "dir",
				Value:   c.StartDir,
				Message: "not a directory",
			}
		}
	}

	if c.ProgressInterval < 0 || c.ProgressDelay < 0 {
		return &errors.ConfigError{
			Field:   "progress-interval",
			Value:   c.ProgressInterval,
			Message: "progress timings must not be negative",
		}
	}

	return nil
}
