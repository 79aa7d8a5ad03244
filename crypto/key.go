// Package crypto implements the symmetric, password-keyed transform
// applied to transferred file bytes.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize selects AES-256.
	KeySize = 32

	// keyIterations is deliberately modest: the cipher is an
	// opportunistic privacy layer, not an authentication scheme.
	keyIterations = 4096
)

// keySalt is fixed so that host and client derive the same key from
// the same password with no negotiation on the wire.
var keySalt = []byte("goshell/cipher/v1")

// DeriveKey stretches a password into an AES-256 key. An empty
// password is valid; it simply keys the transform predictably.
func DeriveKey(password string) []byte {
	return pbkdf2.Key([]byte(password), keySalt, keyIterations, KeySize, sha256.New)
}
