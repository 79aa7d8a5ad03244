// Package errors provides domain-specific error types for goshell.
//
// These types carry structured context (operation, address, protocol
// stage) that helps callers decide whether a failure ends the whole
// session or only the operation in flight, and provides better
// diagnostics than plain string wrapping.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrPortInUse     = errors.New("port is already hosted")
	ErrNotHosted     = errors.New("port is not hosted")
	ErrNotConnected  = errors.New("not connected to a host")
	ErrSessionClosed = errors.New("session is closed")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure on the session's socket. It is
// fatal for the session: the worker (or client) transitions to its
// closed state and no retry is attempted.
type NetworkError struct {
	Op   string // "dial", "listen", "accept", "read", "write"
	Addr string // network address involved
	Err  error  // underlying error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError represents a malformed transfer exchange (bad header
// block, unparseable size, unexpected acknowledgment). It aborts only
// the transfer; the text channel remains usable.
type ProtocolError struct {
	Stage string // "marker", "name", "size", "ack"
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("transfer protocol (%s): %v", e.Stage, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// TransferError represents a failure while streaming payload bytes:
// disk full, permission denied, or a read error that may really be a
// wrong-password garbage stream. The partially written destination
// file is left in place.
type TransferError struct {
	File string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s: %v", e.File, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{Op: op, Addr: addr, Err: err}
}

// WrapProtocol creates a ProtocolError for the given exchange stage.
func WrapProtocol(stage string, err error) *ProtocolError {
	return &ProtocolError{Stage: stage, Err: err}
}

// WrapTransfer creates a TransferError.
func WrapTransfer(file string, err error) *TransferError {
	return &TransferError{File: file, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// IsFatal reports whether err should end the whole session rather than
// just the operation that produced it.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return false
	}
	var te *TransferError
	if errors.As(err, &te) {
		return false
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use goshell/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
