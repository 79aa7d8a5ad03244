package config

import (
	"path/filepath"
	"strings"
	"testing"
)

// ── ParseOverwriteMode ───────────────────────────────────────────────

func TestParseOverwriteMode(t *testing.T) {
	tests := []struct {
		input   string
		want    OverwriteMode
		wantErr bool
	}{
		{"prompt", OverwritePrompt, false},
		{"always", OverwriteAlways, false},
		{"never", OverwriteNever, false},
		{"ALWAYS", OverwriteAlways, false},
		{"  never ", OverwriteNever, false},
		{"", OverwritePrompt, false},
		{"maybe", OverwritePrompt, true},
	}

	for _, tt := range tests {
		got, err := ParseOverwriteMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOverwriteMode(%q) err = %v, wantErr = %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOverwriteMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOverwriteMode_String(t *testing.T) {
	if OverwriteAlways.String() != "always" ||
		OverwriteNever.String() != "never" ||
		OverwritePrompt.String() != "prompt" {
		t.Error("OverwriteMode.String mismatch")
	}
}

// ── ParsePort ────────────────────────────────────────────────────────

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"80", 80, false},
		{"9000", 9000, false},
		{"65535", 65535, false},
		{" 443 ", 443, false},
		{"0", 0, true},
		{"70000", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePort(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePort(%q) err = %v, wantErr = %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePort(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

// ── Validate ─────────────────────────────────────────────────────────

func TestValidate_StartDir(t *testing.T) {
	cfg := Default()
	cfg.StartDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.StartDir = filepath.Join(t.TempDir(), "missing")
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing start directory")
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error %q should carry a hint", err.Error())
	}
}

func TestValidate_NegativeInterval(t *testing.T) {
	cfg := Default()
	cfg.StartDir = t.TempDir()
	cfg.ProgressInterval = -1
	if cfg.Validate() == nil {
		t.Error("negative progress interval should be rejected")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ProgressInterval != DefaultProgressInterval {
		t.Errorf("ProgressInterval = %v", cfg.ProgressInterval)
	}
	if cfg.Overwrite != OverwritePrompt {
		t.Errorf("Overwrite = %v, want prompt", cfg.Overwrite)
	}
}
