package remote

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"goshell/internal/errors"
	"goshell/internal/metrics"
	"goshell/progress"
	"goshell/util"
)

const (
	// ChunkSize is the fixed payload chunk, and also the size of each
	// header block.
	ChunkSize = 1024

	headerSize = ChunkSize
	ackOK      = 0
)

// transferFailedNotice is what the operator sees for any mid-stream
// failure. A wrong password is indistinguishable from a broken pipe
// here: the payload carries no integrity information.
const transferFailedNotice = "Transfer ended with some errors, possibly because of a wrong password."

// Direction of a transfer session, named from the client's viewpoint.
type Direction int

const (
	Download Direction = iota
	Upload
)

func (d Direction) String() string {
	if d == Upload {
		return "upload"
	}
	return "download"
}

// Transfer carries the collaborators a transfer session needs. One
// Transfer value is reused for all sessions on a connection.
type Transfer struct {
	Logger  *util.Logger
	Metrics *metrics.Collector

	// Report receives human-readable notices and progress lines for
	// the receiving operator. Nil discards them.
	Report func(line string)

	// Progress cadence; zero values fall back to the progress
	// package defaults.
	ProgressDelay    time.Duration
	ProgressInterval time.Duration
}

// session is the state of one file moving across a connection. The
// declared size is fixed at negotiation and authoritative: the
// receiver never writes more decoded bytes than that.
type session struct {
	id        string
	direction Direction
	name      string
	size      int64
	moved     int64
}

func (t *Transfer) report(line string) {
	if t.Report != nil {
		t.Report(line)
	}
}

// ── Sender ───────────────────────────────────────────────────────────

// Send streams the file at path to the peer: marker, name block,
// size block (each header acknowledged), then the payload in
// ChunkSize chunks with no per-chunk acknowledgment. Acks are read
// from r, which must be the session's buffered input stream.
func (t *Transfer) Send(conn *Connection, r io.Reader, marker []byte, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WrapTransfer(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.WrapTransfer(path, err)
	}
	if info.IsDir() {
		return errors.WrapTransfer(path, errors.New("is a directory"))
	}

	s := &session{
		id:        uuid.NewString(),
		direction: Download,
		name:      filepath.Base(path),
		size:      info.Size(),
	}
	t.Metrics.TransferStarted()
	defer t.Metrics.TransferFinished()
	t.Logger.Verbose("transfer %s: sending %s (%s)", s.id, s.name, util.HumanBytes(s.size))

	if len(marker) > 0 {
		if _, err := conn.Write(marker); err != nil {
			return errors.Wrap("write", conn.RemoteAddr(), err)
		}
	}
	if err := t.sendHeader(conn, r, s.name, "name"); err != nil {
		return err
	}
	if err := t.sendHeader(conn, r, strconv.FormatInt(s.size, 10), "size"); err != nil {
		return err
	}

	if err := t.sendPayload(conn, f, s); err != nil {
		t.Metrics.RecordError(err.Error())
		return err
	}

	t.Logger.Verbose("transfer %s: sent %s", s.id, s.name)
	return nil
}

func (t *Transfer) sendHeader(conn *Connection, r io.Reader, value, stage string) error {
	if _, err := conn.Write(padBlock(value)); err != nil {
		return errors.Wrap("write", conn.RemoteAddr(), err)
	}
	return readAck(r, conn.RemoteAddr())
}

func (t *Transfer) sendPayload(conn *Connection, f *os.File, s *session) error {
	enc := conn.Encrypt()
	buf := make([]byte, ChunkSize)

	for {
		n, err := f.Read(buf)
		if n > 0 {
			out := buf[:n]
			if enc != nil {
				out = enc.Update(buf[:n])
			}
			if len(out) > 0 {
				if _, werr := conn.Write(out); werr != nil {
					return errors.Wrap("write", conn.RemoteAddr(), werr)
				}
			}
			s.moved += int64(n)
			t.Metrics.BytesSent(int64(n))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.WrapTransfer(s.name, err)
		}
	}

	if enc != nil {
		tail, err := enc.Final()
		if err != nil {
			return errors.WrapTransfer(s.name, err)
		}
		if len(tail) > 0 {
			if _, err := conn.Write(tail); err != nil {
				return errors.Wrap("write", conn.RemoteAddr(), err)
			}
		}
	}
	return nil
}

// ── Receiver ─────────────────────────────────────────────────────────

// Receive runs the receiving half of a transfer whose marker has
// already been consumed from the stream: header blocks, acks, then the
// payload into destDir. Bytes are read from r (the session's buffered
// input, possibly carrying leftover bytes that followed the marker)
// and acks are written to conn. It returns the destination path.
func (t *Transfer) Receive(conn *Connection, r io.Reader, destDir string, direction Direction) (string, error) {
	name, err := t.readHeader(conn, r, "name")
	if err != nil {
		return "", err
	}
	// The name travels as text; only its base is trusted.
	name = filepath.Base(name)
	if name == "." || name == string(os.PathSeparator) || name == "" {
		return "", errors.WrapProtocol("name", errors.New("empty file name"))
	}

	sizeText, err := t.readHeader(conn, r, "size")
	if err != nil {
		return "", err
	}
	size, err := strconv.ParseInt(sizeText, 10, 64)
	if err != nil || size < 0 {
		return "", errors.WrapProtocol("size", fmt.Errorf("bad size %q", sizeText))
	}

	s := &session{
		id:        uuid.NewString(),
		direction: direction,
		name:      name,
		size:      size,
	}
	t.Metrics.TransferStarted()
	defer t.Metrics.TransferFinished()

	verb := "Downloading"
	if direction == Upload {
		verb = "Uploading"
	}
	dest := filepath.Join(destDir, name)
	t.report(fmt.Sprintf("%s %s (%s)", verb, name, util.HumanBytes(size)))
	t.Logger.Verbose("transfer %s: receiving %s (%s) -> %s",
		s.id, s.name, util.HumanBytes(s.size), dest)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.WrapTransfer(name, err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return "", errors.WrapTransfer(name, err)
	}

	err = t.receivePayload(conn, r, out, s)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = errors.WrapTransfer(name, cerr)
	}
	if err != nil {
		// The partial destination file stays on disk.
		t.Metrics.RecordError(err.Error())
		t.report(transferFailedNotice)
		return dest, err
	}

	t.report(fmt.Sprintf("Finished %s %s (%s)", strings.ToLower(verb), name, util.HumanBytes(size)))
	t.Logger.Verbose("transfer %s: received %s", s.id, s.name)
	return dest, nil
}

func (t *Transfer) receivePayload(conn *Connection, r io.Reader, out *os.File, s *session) error {
	dec := conn.Decrypt()

	tracker := progress.NewTracker(s.size, t.Report)
	if t.ProgressDelay > 0 || t.ProgressInterval > 0 {
		tracker.SetInterval(t.ProgressDelay, t.ProgressInterval)
	}
	tracker.Start()
	defer tracker.Stop()

	buf := make([]byte, ChunkSize)
	for s.moved < s.size {
		n, err := r.Read(buf)
		if n > 0 {
			// The final chunk may carry more raw bytes than the
			// declared size allows; the excess is not payload.
			if s.moved+int64(n) > s.size {
				n = int(s.size - s.moved)
			}
			chunk := buf[:n]
			if dec != nil {
				chunk = dec.Update(buf[:n])
			}
			if len(chunk) > 0 {
				if _, werr := out.Write(chunk); werr != nil {
					return errors.WrapTransfer(s.name, werr)
				}
			}
			s.moved += int64(n)
			tracker.Add(int64(n))
			t.Metrics.BytesReceived(int64(n))
		}
		if err != nil {
			// EOF delivered together with the final chunk is fine.
			if s.moved >= s.size {
				break
			}
			return errors.Wrap("read", conn.RemoteAddr(), err)
		}
	}

	if dec != nil {
		tail, err := dec.Final()
		if err != nil {
			return errors.WrapTransfer(s.name, err)
		}
		if len(tail) > 0 {
			if _, err := out.Write(tail); err != nil {
				return errors.WrapTransfer(s.name, err)
			}
		}
	}
	return nil
}

// ── Upload negotiation ───────────────────────────────────────────────

// RequestUpload asks the connected client to push the file at its
// srcPath to us, then receives it into destDir. Run on the host side
// of a connection.
func (t *Transfer) RequestUpload(conn *Connection, r io.Reader, srcPath, destDir string) (string, error) {
	if _, err := conn.Write(uploadMarker); err != nil {
		return "", errors.Wrap("write", conn.RemoteAddr(), err)
	}
	if err := t.sendHeader(conn, r, srcPath, "path"); err != nil {
		return "", err
	}
	return t.Receive(conn, r, destDir, Upload)
}

// ServeUpload is the client-side answer to an upload marker: read the
// requested source path, acknowledge it, and push the file.
func (t *Transfer) ServeUpload(conn *Connection, r io.Reader) error {
	path, err := t.readHeader(conn, r, "path")
	if err != nil {
		return err
	}

	// A file we cannot serve must still answer the host, or its
	// worker would block on the name header forever (there are no
	// operation timeouts). An empty name block makes the host abort
	// just this transfer and keep the session.
	if info, statErr := os.Stat(path); statErr != nil || info.IsDir() {
		if _, err := conn.Write(padBlock("")); err != nil {
			return errors.Wrap("write", conn.RemoteAddr(), err)
		}
		if err := readAck(r, conn.RemoteAddr()); err != nil {
			return err
		}
		if statErr != nil {
			return errors.WrapTransfer(path, statErr)
		}
		return errors.WrapTransfer(path, errors.New("is a directory"))
	}

	return t.Send(conn, r, nil, path)
}

// ── Wire helpers ─────────────────────────────────────────────────────

func (t *Transfer) readHeader(conn *Connection, r io.Reader, stage string) (string, error) {
	block := make([]byte, headerSize)
	if _, err := io.ReadFull(r, block); err != nil {
		return "", errors.Wrap("read", conn.RemoteAddr(), err)
	}
	if _, err := conn.Write([]byte{ackOK}); err != nil {
		return "", errors.Wrap("write", conn.RemoteAddr(), err)
	}
	return trimBlock(block), nil
}

func readAck(r io.Reader, addr string) error {
	var ack [1]byte
	if _, err := io.ReadFull(r, ack[:]); err != nil {
		return errors.Wrap("read", addr, err)
	}
	if ack[0] != ackOK {
		return errors.WrapProtocol("ack", fmt.Errorf("unexpected acknowledgment %d", ack[0]))
	}
	return nil
}

// padBlock lays value into a fixed header block, space-padded and
// truncated to fit.
func padBlock(value string) []byte {
	block := make([]byte, headerSize)
	for i := range block {
		block[i] = ' '
	}
	copy(block, value)
	return block
}

// trimBlock recovers the value from a header block, dropping padding
// and stray whitespace.
func trimBlock(block []byte) string {
	return strings.TrimFunc(string(block), func(r rune) bool { return r <= ' ' })
}
