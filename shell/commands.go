package shell

// baseCommand carries the static metadata every command shares.
type baseCommand struct {
	name     string
	synopsis string
	desc     string
}

func (b baseCommand) Name() string        { return b.name }
func (b baseCommand) Synopsis() string    { return b.synopsis }
func (b baseCommand) Description() string { return b.desc }

// LocalCommands returns the catalog of commands that operate on the
// local filesystem, plus help and exit.
func LocalCommands() []Command {
	return []Command{
		newPwdCommand(),
		newCdCommand(),
		newLsCommand(),
		newMkdirCommand(),
		newCatCommand(),
		newHexdumpCommand(),
		newCopyCommand(),
		newCountCommand(),
		newExitCommand(),
	}
}
