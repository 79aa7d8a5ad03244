package cmd

import (
	"context"
	"testing"
)

// TestExecute_Version verifies --version prints and exits cleanly.
func TestExecute_Version(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_Help verifies --help returns without error.
func TestExecute_Help(t *testing.T) {
	if err := Execute(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	if err := Execute(context.Background(), []string{"--nonexistent-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestExecute_InvalidOverwrite verifies a bad overwrite policy is
// rejected before the shell starts.
func TestExecute_InvalidOverwrite(t *testing.T) {
	if err := Execute(context.Background(), []string{"--overwrite", "sometimes"}); err == nil {
		t.Fatal("expected error for invalid overwrite mode")
	}
}

// TestExecute_InvalidDir verifies a missing start directory fails
// validation.
func TestExecute_InvalidDir(t *testing.T) {
	if err := Execute(context.Background(), []string{"-d", "/no/such/dir"}); err == nil {
		t.Fatal("expected error for missing start directory")
	}
}
