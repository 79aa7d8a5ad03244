package remote

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"goshell/config"
	"goshell/internal/metrics"
	"goshell/shell"
	"goshell/util"
)

// State of a Worker's command loop.
type State int

const (
	// StateReadingCommand waits for the next line from the peer.
	StateReadingCommand State = iota
	// StateExecuting runs a dispatched command.
	StateExecuting
	// StateStreaming runs the binary transfer sub-protocol.
	StateStreaming
	// StateClosed is terminal: the socket is gone.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReadingCommand:
		return "reading-command"
	case StateExecuting:
		return "executing"
	case StateStreaming:
		return "streaming"
	default:
		return "closed"
	}
}

// transitions is the explicit move table. Anything can close; nothing
// leaves Closed.
var transitions = map[State][]State{
	StateReadingCommand: {StateExecuting, StateClosed},
	StateExecuting:      {StateStreaming, StateReadingCommand, StateClosed},
	StateStreaming:      {StateReadingCommand, StateClosed},
	StateClosed:         {},
}

// stateMachine validates worker state moves so the lifecycle is
// deterministic and testable rather than a scatter of booleans.
type stateMachine struct {
	state State
}

func (m *stateMachine) current() State { return m.state }

func (m *stateMachine) transition(to State) error {
	for _, ok := range transitions[m.state] {
		if ok == to {
			m.state = to
			return nil
		}
	}
	return fmt.Errorf("invalid state transition %s -> %s", m.state, to)
}

// streamer is implemented by commands that switch the connection into
// the transfer sub-protocol.
type streamer interface {
	Streams() bool
}

// Worker is the per-accepted-connection session on the host side: it
// runs the command loop, invokes the dispatcher, and owns its
// Connection exclusively for the session's lifetime.
type Worker struct {
	id         string
	conn       *Connection
	env        *shell.Environment
	dispatcher *shell.Dispatcher
	logger     *util.Logger
	metrics    *metrics.Collector
	sm         stateMachine
}

func newWorker(conn *Connection, cfg *config.Config, d *shell.Dispatcher,
	logger *util.Logger, m *metrics.Collector) *Worker {
	env := shell.NewEnvironment(conn, conn, cfg.StartDir)
	env.SetConnection(conn)
	return &Worker{
		id:         uuid.NewString(),
		conn:       conn,
		env:        env,
		dispatcher: d,
		logger:     logger,
		metrics:    m,
	}
}

// State returns the worker's current lifecycle state.
func (w *Worker) State() State { return w.sm.current() }

// Run drives the session until the peer exits or the socket dies. A
// failing command is reported to the peer and the loop continues; only
// socket I/O failures are fatal.
func (w *Worker) Run() {
	defer func() {
		w.sm.transition(StateClosed) //nolint:errcheck
		w.conn.Close()
	}()

	w.env.Writeln("Connected to goshell host. Type help for commands.")

	for {
		w.env.WritePrompt()

		line, err := w.env.ReadLine()
		if err != nil {
			if !util.IsClosedConn(err) {
				w.logger.Verbose("worker %s: read: %v", w.id, err)
			}
			return
		}

		if err := w.sm.transition(StateExecuting); err != nil {
			w.logger.Error("worker %s: %v", w.id, err)
			return
		}
		if w.isTransferLine(line) {
			if err := w.sm.transition(StateStreaming); err != nil {
				w.logger.Error("worker %s: %v", w.id, err)
				return
			}
		}

		status := w.dispatcher.Dispatch(w.env, line)

		if err := w.sm.transition(StateReadingCommand); err != nil {
			w.logger.Error("worker %s: %v", w.id, err)
			return
		}
		if status == shell.StatusTerminate {
			w.env.Writeln("Goodbye.")
			return
		}
	}
}

// isTransferLine reports whether the line's verb dispatches to a
// command that runs the transfer sub-protocol.
func (w *Worker) isTransferLine(line string) bool {
	verb := strings.TrimSpace(line)
	if i := strings.IndexAny(verb, " \t"); i >= 0 {
		verb = verb[:i]
	}
	cmd, ok := w.dispatcher.Lookup(verb)
	if !ok {
		return false
	}
	s, ok := cmd.(streamer)
	return ok && s.Streams()
}
