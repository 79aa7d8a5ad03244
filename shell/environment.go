// Package shell implements the interactive file-management shell: the
// Environment capability handed to every command, the line dispatcher,
// and the catalog of local commands.
//
// The remote layer consumes this package through two narrow contracts:
// an Environment (write output, report the current directory, query
// connection state) and a Dispatcher (execute one line of text).
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Connection is the remote link attached to a connected Environment.
// Its concrete type belongs to the remote layer; the shell only tracks
// presence and identity.
type Connection interface {
	RemoteAddr() string
	Close() error
}

// Environment is the capability a command executes against: an output
// channel, an input channel for interactive prompts, a current working
// directory, and the optional remote connection.
//
// For the local shell the channels are stdin/stdout; for a hosted
// session both are the accepted socket, so command output travels to
// the remote operator.
type Environment struct {
	mu   sync.Mutex // serializes writes (command output vs. progress reports)
	in   *bufio.Reader
	out  io.Writer
	cwd  string
	conn Connection

	promptSymbol string
}

// NewEnvironment creates an Environment rooted at startDir. An empty
// or unusable startDir falls back to the process working directory.
func NewEnvironment(in io.Reader, out io.Writer, startDir string) *Environment {
	cwd := startDir
	if info, err := os.Stat(cwd); cwd == "" || err != nil || !info.IsDir() {
		cwd, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}
	return &Environment{
		in:           bufio.NewReader(in),
		out:          out,
		cwd:          cwd,
		promptSymbol: "> ",
	}
}

// Write sends raw bytes to the environment's output.
func (e *Environment) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.out.Write(p)
}

// Writeln sends one line of text.
func (e *Environment) Writeln(s string) {
	e.Write([]byte(s + "\n")) //nolint:errcheck
}

// Printf formats and sends text without a trailing newline.
func (e *Environment) Printf(format string, args ...interface{}) {
	e.Write([]byte(fmt.Sprintf(format, args...))) //nolint:errcheck
}

// WritePrompt emits a fresh prompt.
func (e *Environment) WritePrompt() {
	e.Write([]byte(e.promptSymbol)) //nolint:errcheck
}

// Reader exposes the buffered input stream. Protocol code must read
// through it rather than the underlying socket, or bytes already
// buffered by ReadLine would be lost.
func (e *Environment) Reader() io.Reader {
	return e.in
}

// ReadLine blocks for one line of input, without the line break.
func (e *Environment) ReadLine() (string, error) {
	line, err := e.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// CurrentPath returns the environment's working directory.
func (e *Environment) CurrentPath() string {
	return e.cwd
}

// SetCurrentPath changes the working directory. The target must exist
// and be a directory.
func (e *Environment) SetCurrentPath(path string) error {
	abs := e.Resolve(path)
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cd %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cd %s: not a directory", path)
	}
	e.cwd = abs
	return nil
}

// Resolve turns a possibly relative path into an absolute one against
// the current working directory.
func (e *Environment) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(e.cwd, path)
}

// IsConnected reports whether a remote connection is attached.
func (e *Environment) IsConnected() bool {
	return e.conn != nil
}

// Connection returns the attached connection, or nil.
func (e *Environment) Connection() Connection {
	return e.conn
}

// SetConnection attaches (or with nil, detaches) a remote connection.
func (e *Environment) SetConnection(c Connection) {
	e.conn = c
}
