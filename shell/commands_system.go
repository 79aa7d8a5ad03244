package shell

import (
	"fmt"
)

// ── pwd ──────────────────────────────────────────────────────────────

type pwdCommand struct{ baseCommand }

func newPwdCommand() Command {
	return &pwdCommand{baseCommand{
		name:     "pwd",
		synopsis: "pwd",
		desc:     "Prints the current working directory.",
	}}
}

func (c *pwdCommand) Execute(env *Environment, _ string) (Status, error) {
	env.Writeln(env.CurrentPath())
	return StatusContinue, nil
}

// ── cd ───────────────────────────────────────────────────────────────

type cdCommand struct{ baseCommand }

func newCdCommand() Command {
	return &cdCommand{baseCommand{
		name:     "cd",
		synopsis: "cd <dir>",
		desc:     "Changes the current working directory.",
	}}
}

func (c *cdCommand) Execute(env *Environment, args string) (Status, error) {
	if args == "" {
		return StatusContinue, fmt.Errorf("missing directory argument")
	}
	if err := env.SetCurrentPath(args); err != nil {
		return StatusContinue, err
	}
	env.Writeln(env.CurrentPath())
	return StatusContinue, nil
}

// ── exit ─────────────────────────────────────────────────────────────

type exitCommand struct{ baseCommand }

func newExitCommand() Command {
	return &exitCommand{baseCommand{
		name:     "exit",
		synopsis: "exit",
		desc:     "Ends the session.",
	}}
}

func (c *exitCommand) Execute(env *Environment, _ string) (Status, error) {
	return StatusTerminate, nil
}

// ── help ─────────────────────────────────────────────────────────────

type helpCommand struct {
	baseCommand
	dispatcher *Dispatcher
}

func newHelpCommand(d *Dispatcher) Command {
	return &helpCommand{
		baseCommand: baseCommand{
			name:     "help",
			synopsis: "help [command]",
			desc:     "Lists available commands, or describes one command.",
		},
		dispatcher: d,
	}
}

func (c *helpCommand) Execute(env *Environment, args string) (Status, error) {
	if args != "" {
		cmd, ok := c.dispatcher.Lookup(args)
		if !ok {
			return StatusContinue, fmt.Errorf("no such command %q", args)
		}
		env.Writeln(cmd.Synopsis())
		env.Writeln("  " + cmd.Description())
		return StatusContinue, nil
	}

	for _, cmd := range c.dispatcher.Commands() {
		env.Writeln(fmt.Sprintf("%-24s %s", cmd.Synopsis(), cmd.Description()))
	}
	return StatusContinue, nil
}
