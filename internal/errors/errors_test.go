package errors

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestNetworkError_Format(t *testing.T) {
	err := Wrap("read", "127.0.0.1:9000", io.ErrUnexpectedEOF)
	want := "read 127.0.0.1:9000: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, io.ErrUnexpectedEOF) {
		t.Error("Unwrap chain should reach the underlying error")
	}
}

func TestProtocolError_NotFatal(t *testing.T) {
	err := WrapProtocol("size", New("not a number"))
	if IsFatal(err) {
		t.Error("protocol errors must not end the session")
	}
	var pe *ProtocolError
	if !As(err, &pe) || pe.Stage != "size" {
		t.Errorf("As failed or wrong stage: %+v", pe)
	}
}

func TestNetworkError_Fatal(t *testing.T) {
	err := fmt.Errorf("while reading: %w", Wrap("read", "peer", io.EOF))
	if !IsFatal(err) {
		t.Error("wrapped network errors must be fatal for the session")
	}
}

func TestTransferError_Format(t *testing.T) {
	err := WrapTransfer("notes.txt", New("disk full"))
	if err.Error() != "transfer notes.txt: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsFatal(err) {
		t.Error("transfer errors abort the transfer only")
	}
}

func TestConfigError_Hint(t *testing.T) {
	err := &ConfigError{
		Field:   "dir",
		Value:   "/nope",
		Message: "directory does not exist",
		Hint:    "create it or pass an existing path",
	}
	got := err.Error()
	for _, want := range []string{"--dir", "/nope", "hint:"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q missing %q", got, want)
		}
	}
}

func TestSentinels(t *testing.T) {
	if Is(ErrPortInUse, ErrNotHosted) {
		t.Error("distinct sentinels compare equal")
	}
	wrapped := fmt.Errorf("host 9000: %w", ErrPortInUse)
	if !Is(wrapped, ErrPortInUse) {
		t.Error("wrapped sentinel not matched")
	}
}
