package shell

import (
	"fmt"
	"sort"
	"strings"

	"goshell/util"
)

// Status tells the surrounding loop whether to keep reading commands.
type Status int

const (
	// StatusContinue keeps the command loop running.
	StatusContinue Status = iota
	// StatusTerminate ends the session (explicit exit).
	StatusTerminate
)

// Command is one executable shell command.
type Command interface {
	// Name is the lower-case verb the dispatcher matches on.
	Name() string
	// Synopsis is the one-line usage string, e.g. "cat <file>".
	Synopsis() string
	// Description is the help text.
	Description() string
	// Execute runs the command. The args string is everything after
	// the verb, untrimmed of internal spacing, or "" when absent.
	Execute(env *Environment, args string) (Status, error)
}

// Dispatcher turns one line of text into executed behavior and textual
// output on the Environment.
type Dispatcher struct {
	commands map[string]Command
	logger   *util.Logger
}

// NewDispatcher returns a dispatcher with only the built-in help
// command registered.
func NewDispatcher(logger *util.Logger) *Dispatcher {
	d := &Dispatcher{
		commands: make(map[string]Command),
		logger:   logger,
	}
	d.Register(newHelpCommand(d))
	return d
}

// Register adds commands, overriding earlier ones with the same name.
func (d *Dispatcher) Register(cmds ...Command) {
	for _, c := range cmds {
		d.commands[strings.ToLower(c.Name())] = c
	}
}

// Lookup finds a command by verb.
func (d *Dispatcher) Lookup(verb string) (Command, bool) {
	c, ok := d.commands[strings.ToLower(verb)]
	return c, ok
}

// Commands returns all registered commands sorted by name.
func (d *Dispatcher) Commands() []Command {
	out := make([]Command, 0, len(d.commands))
	for _, c := range d.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Dispatch executes one line against env. A failing or panicking
// command is reported as text on env and never escapes: only the
// returned Status carries control flow.
func (d *Dispatcher) Dispatch(env *Environment, line string) (status Status) {
	defer func() {
		if r := recover(); r != nil {
			env.Writeln(fmt.Sprintf("command failed: %v", r))
			d.logger.Error("command panic: %v", r)
			status = StatusContinue
		}
	}()

	line = strings.TrimSpace(line)
	if line == "" {
		return StatusContinue
	}

	verb := line
	args := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		verb, args = line[:i], strings.TrimSpace(line[i+1:])
	}

	cmd, ok := d.Lookup(verb)
	if !ok {
		env.Writeln(fmt.Sprintf("Unknown command: %s", verb))
		return StatusContinue
	}

	d.logger.Debug("dispatch: %s %q", cmd.Name(), args)

	status, err := cmd.Execute(env, args)
	if err != nil {
		env.Writeln(fmt.Sprintf("%s: %v", cmd.Name(), err))
	}
	return status
}

// Run drives an interactive session: prompt, read, dispatch, repeat
// until a command terminates the session or input ends.
func (d *Dispatcher) Run(env *Environment) {
	for {
		env.WritePrompt()
		line, err := env.ReadLine()
		if err != nil {
			return
		}
		if d.Dispatch(env, line) == StatusTerminate {
			return
		}
	}
}
