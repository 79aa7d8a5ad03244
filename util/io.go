package util

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
)

// DefaultBufSize is the standard buffer size for local file I/O (32 KiB).
const DefaultBufSize = 32 * 1024

// CopyFile copies src to dst, creating parent directories as needed.
// Returns the number of bytes copied.
func CopyFile(dst, src string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir %s: %w", filepath.Dir(dst), err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	buf := GetBuf()
	n, err := io.CopyBuffer(out, in, *buf)
	PutBuf(buf)

	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return n, nil
}

// IsClosedConn reports whether err is the kind of error a blocked read
// or write returns once the peer (or our own shutdown path) has closed
// the socket. Both ends of a session treat these as orderly
// termination rather than failures.
func IsClosedConn(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
