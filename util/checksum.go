package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// FileChecksum returns the hex-encoded SHA-256 digest of the file at
// path. The transfer protocol carries no integrity information on the
// wire; this exists so callers (and the test suite) can compare source
// and destination after the fact.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := GetBuf()
	_, err = io.CopyBuffer(h, f, *buf)
	PutBuf(buf)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
