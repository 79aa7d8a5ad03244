package remote

import (
	"fmt"
	"net"

	"goshell/config"
	"goshell/internal/errors"
	"goshell/internal/metrics"
	"goshell/shell"
	"goshell/util"
)

// Server hosts remote-shell listeners. Each started port gets its own
// acceptor goroutine; each accepted connection gets a fresh
// Environment rooted at the configured start directory and its own
// Worker goroutine. Ports are fully independent of one another.
type Server struct {
	cfg        *config.Config
	dispatcher *shell.Dispatcher
	registry   *Registry
	logger     *util.Logger
	metrics    *metrics.Collector
}

// NewServer wires a Server. The registry is injected so tests (and a
// future multi-tenant embedding) can scope it.
func NewServer(cfg *config.Config, d *shell.Dispatcher, reg *Registry,
	logger *util.Logger, m *metrics.Collector) *Server {
	return &Server{
		cfg:        cfg,
		dispatcher: d,
		registry:   reg,
		logger:     logger,
		metrics:    m,
	}
}

// Start binds a listener on port and begins accepting sessions whose
// transferred files are ciphered with password (empty password: no
// cipher). It fails with ErrPortInUse when the port is already hosted.
func (s *Server) Start(port int, password string) error {
	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap("listen", addr, err)
	}

	reg := newRegistration(port, ln)
	if err := s.registry.Add(reg); err != nil {
		ln.Close()
		return fmt.Errorf("port %d: %w", port, err)
	}

	s.logger.Info("hosting on %s", ln.Addr())
	go s.acceptLoop(reg, password)
	return nil
}

// Stop closes the listener on port and every session it spawned. It
// returns ErrNotHosted when the port is not registered.
func (s *Server) Stop(port int) error {
	reg, ok := s.registry.Remove(port)
	if !ok {
		return fmt.Errorf("port %d: %w", port, errors.ErrNotHosted)
	}
	reg.close()
	s.logger.Info("stopped hosting on port %d", port)
	return nil
}

// Ports returns the currently hosted ports in ascending order.
func (s *Server) Ports() []int {
	return s.registry.Ports()
}

// StopAll stops every hosted port.
func (s *Server) StopAll() {
	for _, port := range s.registry.Ports() {
		s.Stop(port) //nolint:errcheck
	}
}

func (s *Server) acceptLoop(reg *Registration, password string) {
	for {
		nc, err := reg.listener.Accept()
		if err != nil {
			if reg.isClosed() || util.IsClosedConn(err) {
				return
			}
			s.logger.Error("accept on port %d: %v", reg.Port, err)
			return
		}

		conn, err := NewConnection(nc, password)
		if err != nil {
			s.logger.Error("session setup for %s: %v", nc.RemoteAddr(), err)
			nc.Close()
			continue
		}

		s.logger.Info("connection from %s on port %d", conn.RemoteAddr(), reg.Port)
		s.metrics.SessionOpened()

		w := newWorker(conn, s.cfg, s.dispatcher, s.logger, s.metrics)
		reg.addWorker(w)
		go func() {
			w.Run()
			reg.removeWorker(w)
			s.metrics.SessionClosed()
			s.logger.Info("client %s disconnected", conn.RemoteAddr())
		}()
	}
}
