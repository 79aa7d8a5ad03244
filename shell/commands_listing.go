package shell

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"goshell/util"
)

// ── ls ───────────────────────────────────────────────────────────────

type lsCommand struct{ baseCommand }

func newLsCommand() Command {
	return &lsCommand{baseCommand{
		name:     "ls",
		synopsis: "ls [dir]",
		desc:     "Lists directory contents with sizes.",
	}}
}

func (c *lsCommand) Execute(env *Environment, args string) (Status, error) {
	dir := env.CurrentPath()
	if args != "" {
		dir = env.Resolve(args)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return StatusContinue, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			env.Writeln(fmt.Sprintf("%-40s <dir>", entry.Name()+string(os.PathSeparator)))
			continue
		}
		info, err := entry.Info()
		if err != nil {
			env.Writeln(fmt.Sprintf("%-40s ?", entry.Name()))
			continue
		}
		env.Writeln(fmt.Sprintf("%-40s %s", entry.Name(), util.HumanBytes(info.Size())))
	}
	return StatusContinue, nil
}

// ── count ────────────────────────────────────────────────────────────

type countCommand struct{ baseCommand }

func newCountCommand() Command {
	return &countCommand{baseCommand{
		name:     "count",
		synopsis: "count [dir]",
		desc:     "Counts files and directories in a tree.",
	}}
}

func (c *countCommand) Execute(env *Environment, args string) (Status, error) {
	root := env.CurrentPath()
	if args != "" {
		root = env.Resolve(args)
	}

	var files, dirs int
	var bytes int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			dirs++
			return nil
		}
		files++
		if info, err := d.Info(); err == nil {
			bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return StatusContinue, err
	}

	env.Writeln(fmt.Sprintf("%d files, %d directories, %s total",
		files, dirs, util.HumanBytes(bytes)))
	return StatusContinue, nil
}
