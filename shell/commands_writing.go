package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goshell/util"
)

// ── mkdir ────────────────────────────────────────────────────────────

type mkdirCommand struct{ baseCommand }

func newMkdirCommand() Command {
	return &mkdirCommand{baseCommand{
		name:     "mkdir",
		synopsis: "mkdir <dir>",
		desc:     "Creates a directory, including parents.",
	}}
}

func (c *mkdirCommand) Execute(env *Environment, args string) (Status, error) {
	if args == "" {
		return StatusContinue, fmt.Errorf("missing directory argument")
	}
	path := env.Resolve(args)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return StatusContinue, err
	}
	env.Writeln("Created " + path)
	return StatusContinue, nil
}

// ── copy ─────────────────────────────────────────────────────────────

type copyCommand struct{ baseCommand }

func newCopyCommand() Command {
	return &copyCommand{baseCommand{
		name:     "copy",
		synopsis: "copy <src> <dst>",
		desc:     "Copies a file.",
	}}
}

func (c *copyCommand) Execute(env *Environment, args string) (Status, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return StatusContinue, fmt.Errorf("expected two arguments: source and destination")
	}

	src := env.Resolve(fields[0])
	dst := env.Resolve(fields[1])

	// Copying onto a directory targets a same-named file inside it.
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	n, err := util.CopyFile(dst, src)
	if err != nil {
		return StatusContinue, err
	}
	env.Writeln(fmt.Sprintf("Copied %s (%s)", filepath.Base(src), util.HumanBytes(n)))
	return StatusContinue, nil
}
