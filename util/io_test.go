package util

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "sub", "dir", "dst.bin")

	content := bytes.Repeat([]byte("goshell"), 1000)
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := CopyFile(dst, src)
	if err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("copied %d bytes, want %d", n, len(content))
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Error("destination differs from source")
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := CopyFile(filepath.Join(dir, "dst"), filepath.Join(dir, "nope"))
	if err == nil {
		t.Error("expected error for missing source")
	}
}

func TestIsClosedConn(t *testing.T) {
	if IsClosedConn(nil) {
		t.Error("nil is not a closed-connection error")
	}
	if !IsClosedConn(io.EOF) {
		t.Error("io.EOF should count as closed")
	}
	if !IsClosedConn(net.ErrClosed) {
		t.Error("net.ErrClosed should count as closed")
	}
	if IsClosedConn(io.ErrUnexpectedEOF) {
		t.Error("ErrUnexpectedEOF should NOT count as closed")
	}
}

func TestIsClosedConn_AfterClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
		close(done)
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	<-done
	conn.Close()

	_, err = conn.Read(make([]byte, 1))
	if !IsClosedConn(err) {
		t.Errorf("read on closed conn: err = %v, want closed-conn class", err)
	}
}
