package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
)

// Mode selects the direction of a CipherStream.
type Mode int

const (
	Encrypt Mode = iota
	Decrypt
)

// CipherStream is a chunk-oriented AES-CTR transform constructed once
// per connection. Update accepts arbitrary-length chunks and may hold
// back a partial block; Final flushes the held bytes and is called
// exactly once per transfer. After Final the keystream is rewound so
// the next transfer on the same connection starts aligned with the
// peer's. A Final with no preceding Update is an empty transfer: a
// zero-byte file crosses the wire as just a boundary.
//
// There is no integrity protection: a stream keyed with the wrong
// password decodes to garbage, never to a detectable error.
type CipherStream struct {
	mode   Mode
	block  cipher.Block
	iv     []byte
	stream cipher.Stream
	buf    []byte
}

// New builds a CipherStream from a key produced by DeriveKey.
func New(key []byte, mode Mode) (*CipherStream, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}

	// The IV is derived from the key so both ends agree on it without
	// carrying it on the wire.
	sum := sha256.Sum256(append(append([]byte{}, key...), []byte("/iv")...))
	iv := sum[:aes.BlockSize]

	return &CipherStream{
		mode:   mode,
		block:  block,
		iv:     iv,
		stream: cipher.NewCTR(block, iv),
	}, nil
}

// Mode returns the stream's direction.
func (c *CipherStream) Mode() Mode { return c.mode }

// Update transforms one chunk. Whole blocks are transformed and
// returned immediately; a trailing partial block is buffered until the
// next Update or Final. The returned slice is freshly allocated and
// owned by the caller.
func (c *CipherStream) Update(p []byte) []byte {
	c.buf = append(c.buf, p...)

	n := len(c.buf) - len(c.buf)%aes.BlockSize
	if n == 0 {
		return nil
	}

	out := make([]byte, n)
	c.stream.XORKeyStream(out, c.buf[:n])
	c.buf = append(c.buf[:0:0], c.buf[n:]...)
	return out
}

// Final transforms and returns any buffered partial block, then
// rewinds the keystream for the next transfer.
func (c *CipherStream) Final() ([]byte, error) {
	var out []byte
	if len(c.buf) > 0 {
		out = make([]byte, len(c.buf))
		c.stream.XORKeyStream(out, c.buf)
		c.buf = nil
	}

	c.stream = cipher.NewCTR(c.block, c.iv)
	return out, nil
}
