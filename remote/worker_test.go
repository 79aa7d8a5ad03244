package remote

import (
	"testing"

	"goshell/shell"
	"goshell/util"
)

// TestStateMachineHappyPath verifies the read-execute cycle, the
// streaming detour, and the terminal close.
func TestStateMachineHappyPath(t *testing.T) {
	var sm stateMachine
	if sm.current() != StateReadingCommand {
		t.Fatalf("initial state = %v", sm.current())
	}

	for _, to := range []State{
		StateExecuting, StateStreaming, StateReadingCommand,
		StateExecuting, StateReadingCommand, StateClosed,
	} {
		if err := sm.transition(to); err != nil {
			t.Fatalf("transition to %v: %v", to, err)
		}
	}
}

// TestStateMachineInvalidMoves verifies the table rejects skips and
// that Closed is terminal.
func TestStateMachineInvalidMoves(t *testing.T) {
	var sm stateMachine
	if err := sm.transition(StateStreaming); err == nil {
		t.Error("reading-command -> streaming should be invalid")
	}

	sm = stateMachine{state: StateClosed}
	for _, to := range []State{StateReadingCommand, StateExecuting, StateStreaming} {
		if err := sm.transition(to); err == nil {
			t.Errorf("closed -> %v should be invalid", to)
		}
	}
}

// TestStateString covers the diagnostic names.
func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateReadingCommand: "reading-command",
		StateExecuting:      "executing",
		StateStreaming:      "streaming",
		StateClosed:         "closed",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

type streamingCommand struct{}

func (streamingCommand) Name() string        { return "xfer" }
func (streamingCommand) Synopsis() string    { return "xfer" }
func (streamingCommand) Description() string { return "" }
func (streamingCommand) Streams() bool       { return true }
func (streamingCommand) Execute(*shell.Environment, string) (shell.Status, error) {
	return shell.StatusContinue, nil
}

// TestIsTransferLine verifies only lines dispatching to streaming
// commands are flagged.
func TestIsTransferLine(t *testing.T) {
	d := shell.NewDispatcher(util.NewLogger(0))
	d.Register(shell.LocalCommands()...)
	d.Register(streamingCommand{})

	w := &Worker{dispatcher: d}
	cases := map[string]bool{
		"xfer some/file": true,
		"XFER":           true,
		"pwd":            false,
		"unknown stuff":  false,
		"":               false,
	}
	for line, want := range cases {
		if got := w.isTransferLine(line); got != want {
			t.Errorf("isTransferLine(%q) = %v, want %v", line, got, want)
		}
	}
}
