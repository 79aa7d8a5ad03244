package shell

import (
	"bufio"
	"fmt"
	"os"
	"unicode"
)

// ── cat ──────────────────────────────────────────────────────────────

type catCommand struct{ baseCommand }

func newCatCommand() Command {
	return &catCommand{baseCommand{
		name:     "cat",
		synopsis: "cat <file>",
		desc:     "Prints the textual content of a file.",
	}}
}

func (c *catCommand) Execute(env *Environment, args string) (Status, error) {
	if args == "" {
		return StatusContinue, fmt.Errorf("missing file argument")
	}

	f, err := os.Open(env.Resolve(args))
	if err != nil {
		return StatusContinue, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		env.Writeln(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return StatusContinue, err
	}
	return StatusContinue, nil
}

// ── hexdump ──────────────────────────────────────────────────────────

type hexdumpCommand struct{ baseCommand }

func newHexdumpCommand() Command {
	return &hexdumpCommand{baseCommand{
		name:     "hexdump",
		synopsis: "hexdump <file>",
		desc:     "Prints a hex and ASCII dump of a file.",
	}}
}

func (c *hexdumpCommand) Execute(env *Environment, args string) (Status, error) {
	if args == "" {
		return StatusContinue, fmt.Errorf("missing file argument")
	}

	f, err := os.Open(env.Resolve(args))
	if err != nil {
		return StatusContinue, err
	}
	defer f.Close()

	buf := make([]byte, 16)
	rd := bufio.NewReader(f)
	for offset := 0; ; {
		n, err := rd.Read(buf)
		if n > 0 {
			env.Writeln(hexdumpLine(offset, buf[:n]))
			offset += n
		}
		if err != nil {
			break
		}
	}
	return StatusContinue, nil
}

// hexdumpLine renders one 16-byte row: offset, hex bytes split in two
// groups of eight, printable ASCII.
func hexdumpLine(offset int, row []byte) string {
	line := fmt.Sprintf("%08X:", offset)
	for i := 0; i < 16; i++ {
		if i == 8 {
			line += " |"
		}
		if i < len(row) {
			line += fmt.Sprintf(" %02X", row[i])
		} else {
			line += "   "
		}
	}
	line += " | "
	for _, b := range row {
		r := rune(b)
		if !unicode.IsPrint(r) || r > unicode.MaxASCII {
			r = '.'
		}
		line += string(r)
	}
	return line
}
