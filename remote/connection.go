// Package remote implements the remote shell and file-transfer layer:
// hosting TCP listeners, per-connection workers, the connect client,
// and the inline protocol that switches a live text connection into
// binary file streaming.
package remote

import (
	"net"

	"goshell/crypto"
)

// Connection is a live duplex byte channel plus an optional
// encrypt/decrypt cipher pair. It is owned exclusively by one worker
// (host side) or one connect session (client side) for its whole
// lifetime and dies when either end closes the socket.
type Connection struct {
	nc      net.Conn
	encrypt *crypto.CipherStream
	decrypt *crypto.CipherStream
}

// NewConnection wraps nc with a cipher pair keyed from password. An
// empty password configures no cipher at all: transferred bytes travel
// in the clear.
func NewConnection(nc net.Conn, password string) (*Connection, error) {
	c := &Connection{nc: nc}
	if password == "" {
		return c, nil
	}

	key := crypto.DeriveKey(password)
	enc, err := crypto.New(key, crypto.Encrypt)
	if err != nil {
		return nil, err
	}
	dec, err := crypto.New(key, crypto.Decrypt)
	if err != nil {
		return nil, err
	}
	c.encrypt = enc
	c.decrypt = dec
	return c, nil
}

// Read reads raw bytes from the socket.
func (c *Connection) Read(p []byte) (int, error) { return c.nc.Read(p) }

// Write writes raw bytes to the socket.
func (c *Connection) Write(p []byte) (int, error) { return c.nc.Write(p) }

// Close closes the socket, unblocking any pending reads and writes on
// both sides.
func (c *Connection) Close() error { return c.nc.Close() }

// RemoteAddr identifies the peer.
func (c *Connection) RemoteAddr() string { return c.nc.RemoteAddr().String() }

// Encrypt returns the outbound payload cipher, or nil when the
// connection is unencrypted.
func (c *Connection) Encrypt() *crypto.CipherStream { return c.encrypt }

// Decrypt returns the inbound payload cipher, or nil when the
// connection is unencrypted.
func (c *Connection) Decrypt() *crypto.CipherStream { return c.decrypt }
