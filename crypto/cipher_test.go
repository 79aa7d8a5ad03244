package crypto

import (
	"bytes"
	"math/rand"
	"testing"
)

// roundTrip pushes plaintext through an encrypt stream in chunks of
// chunkSize, feeds the ciphertext to a decrypt stream in the same
// fashion, and returns the decoded bytes.
func roundTrip(t *testing.T, plaintext []byte, chunkSize int, encPass, decPass string) []byte {
	t.Helper()

	enc, err := New(DeriveKey(encPass), Encrypt)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := New(DeriveKey(decPass), Decrypt)
	if err != nil {
		t.Fatal(err)
	}

	var ciphertext []byte
	for off := 0; off < len(plaintext); off += chunkSize {
		end := off + chunkSize
		if end > len(plaintext) {
			end = len(plaintext)
		}
		ciphertext = append(ciphertext, enc.Update(plaintext[off:end])...)
	}
	tail, err := enc.Final()
	if err != nil {
		t.Fatal(err)
	}
	ciphertext = append(ciphertext, tail...)

	if len(ciphertext) != len(plaintext) {
		t.Fatalf("ciphertext length %d != plaintext length %d", len(ciphertext), len(plaintext))
	}

	var decoded []byte
	for off := 0; off < len(ciphertext); off += chunkSize {
		end := off + chunkSize
		if end > len(ciphertext) {
			end = len(ciphertext)
		}
		decoded = append(decoded, dec.Update(ciphertext[off:end])...)
	}
	tail, err = dec.Final()
	if err != nil {
		t.Fatal(err)
	}
	return append(decoded, tail...)
}

func TestCipherStream_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, size := range []int{0, 1, 15, 16, 17, 1023, 1024, 1025, 5000} {
		plaintext := make([]byte, size)
		rng.Read(plaintext)

		decoded := roundTrip(t, plaintext, 1024, "hunter2", "hunter2")
		if !bytes.Equal(decoded, plaintext) {
			t.Errorf("size %d: decrypt(encrypt(p)) != p", size)
		}
	}
}

func TestCipherStream_OddChunkSizes(t *testing.T) {
	plaintext := []byte("the quick brown fox jumps over the lazy dog, twice over")

	for _, chunk := range []int{1, 3, 7, 16, 33} {
		decoded := roundTrip(t, plaintext, chunk, "pw", "pw")
		if !bytes.Equal(decoded, plaintext) {
			t.Errorf("chunk size %d: round trip mismatch", chunk)
		}
	}
}

func TestCipherStream_WrongPassword(t *testing.T) {
	plaintext := bytes.Repeat([]byte("secret data "), 100)

	decoded := roundTrip(t, plaintext, 1024, "right", "wrong")
	if bytes.Equal(decoded, plaintext) {
		t.Error("wrong password must not reproduce the plaintext")
	}
	// Still length-preserving: garbage, not an error.
	if len(decoded) != len(plaintext) {
		t.Errorf("decoded length %d, want %d", len(decoded), len(plaintext))
	}
}

func TestCipherStream_EmptyTransfer(t *testing.T) {
	// A zero-byte file crosses the wire as a Final with no Updates.
	// That boundary must succeed and must leave the keystream aligned
	// for the next transfer on the same connection.
	c, err := New(DeriveKey("pw"), Encrypt)
	if err != nil {
		t.Fatal(err)
	}

	first := append(c.Update([]byte("0123456789abcdef")), mustFinal(t, c)...)

	if out := mustFinal(t, c); len(out) != 0 {
		t.Fatalf("empty transfer produced %d bytes", len(out))
	}

	second := append(c.Update([]byte("0123456789abcdef")), mustFinal(t, c)...)
	if !bytes.Equal(first, second) {
		t.Error("keystream misaligned after an empty transfer")
	}
}

func TestCipherStream_ReuseAfterFinal(t *testing.T) {
	// Two consecutive transfers over the same connection must produce
	// identical ciphertext for identical plaintext: Final rewinds the
	// keystream.
	c, err := New(DeriveKey("pw"), Encrypt)
	if err != nil {
		t.Fatal(err)
	}

	first := append(c.Update([]byte("0123456789abcdef")), mustFinal(t, c)...)
	second := append(c.Update([]byte("0123456789abcdef")), mustFinal(t, c)...)

	if !bytes.Equal(first, second) {
		t.Error("keystream did not rewind between transfers")
	}
}

func TestDeriveKey(t *testing.T) {
	k1 := DeriveKey("password")
	k2 := DeriveKey("password")
	k3 := DeriveKey("Password")

	if len(k1) != KeySize {
		t.Fatalf("key length %d, want %d", len(k1), KeySize)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("same password must derive the same key")
	}
	if bytes.Equal(k1, k3) {
		t.Error("different passwords must derive different keys")
	}
}

func mustFinal(t *testing.T, c *CipherStream) []byte {
	t.Helper()
	out, err := c.Final()
	if err != nil {
		t.Fatal(err)
	}
	return out
}
