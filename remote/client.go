package remote

import (
	"bytes"
	"io"
	"net"
	"strings"

	"goshell/config"
	"goshell/internal/errors"
	"goshell/internal/metrics"
	"goshell/shell"
	"goshell/util"
)

// Client drives one outgoing session: it relays local input lines to
// the host and runs a background reader that echoes host output while
// watching for transfer markers. There is no reconnect or retry; any
// socket error ends the session.
type Client struct {
	cfg     *config.Config
	logger  *util.Logger
	metrics *metrics.Collector
}

// NewClient wires a Client.
func NewClient(cfg *config.Config, logger *util.Logger, m *metrics.Collector) *Client {
	return &Client{cfg: cfg, logger: logger, metrics: m}
}

// Connect opens a session to host:port and blocks until it ends. The
// env provides local input/output; while connected it carries the
// Connection so commands can see the session.
func (c *Client) Connect(env *shell.Environment, host string, port int) error {
	addr := util.FormatAddr(host, port)

	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return errors.Wrap("dial", addr, err)
	}

	password := c.cfg.Password
	if password == "" {
		password, err = util.PromptPassword("Enter decryption password (empty for none): ")
		if err != nil {
			nc.Close()
			return err
		}
	}

	conn, err := NewConnection(nc, password)
	if err != nil {
		nc.Close()
		return err
	}

	env.SetConnection(conn)
	defer env.SetConnection(nil)

	c.metrics.SessionOpened()
	defer c.metrics.SessionClosed()

	env.Writeln("Connected to " + addr)

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		c.readLoop(env, conn)
	}()

	for {
		line, err := env.ReadLine()
		if err != nil {
			// Local input ended; treat like an exit.
			conn.Close()
			<-readerDone
			env.Writeln("Disconnected from " + addr)
			return nil
		}

		if _, werr := conn.Write([]byte(line + "\n")); werr != nil {
			conn.Close()
			<-readerDone
			env.Writeln("Disconnected from " + addr)
			return errors.Wrap("write", addr, werr)
		}

		if strings.EqualFold(strings.TrimSpace(line), "exit") {
			conn.Close()
			<-readerDone
			env.Writeln("Disconnected from " + addr)
			return nil
		}
	}
}

// readLoop continuously reads from the socket, echoing plain text and
// switching into the transfer sub-protocol when a marker appears. A
// transfer runs inline, blocking further message processing on this
// connection until it ends.
func (c *Client) readLoop(env *shell.Environment, conn *Connection) {
	scanner := newMarkerScanner()
	t := &Transfer{
		Logger:           c.logger,
		Metrics:          c.metrics,
		Report:           env.Writeln,
		ProgressDelay:    c.cfg.ProgressDelay,
		ProgressInterval: c.cfg.ProgressInterval,
	}

	var rd io.Reader = conn
	buf := make([]byte, ChunkSize)

	for {
		n, err := rd.Read(buf)
		if n > 0 {
			plain, marker, rest := scanner.scan(buf[:n])
			if len(plain) > 0 {
				env.Write(plain) //nolint:errcheck
			}

			if marker != markerNone {
				// Bytes that arrived after the marker belong to the
				// protocol; replay them ahead of the socket.
				if len(rest) > 0 {
					rd = io.MultiReader(bytes.NewReader(rest), rd)
				}

				switch marker {
				case markerDownload:
					if _, derr := t.Receive(conn, rd, c.cfg.DownloadDir, Download); derr != nil {
						if isConnGone(derr) {
							return
						}
						c.logger.Verbose("download: %v", derr)
					}
				case markerUpload:
					if uerr := t.ServeUpload(conn, rd); uerr != nil {
						if isConnGone(uerr) {
							return
						}
						env.Writeln(uerr.Error())
					}
				}
			}
		}
		if err != nil {
			if tail := scanner.flush(); len(tail) > 0 {
				env.Write(tail) //nolint:errcheck
			}
			if !util.IsClosedConn(err) {
				c.logger.Verbose("reader: %v", err)
			}
			return
		}
	}
}

// isConnGone reports whether a transfer error means the socket itself
// is dead, as opposed to a recoverable protocol or file problem.
func isConnGone(err error) bool {
	var ne *errors.NetworkError
	return errors.As(err, &ne) && util.IsClosedConn(ne.Err)
}
