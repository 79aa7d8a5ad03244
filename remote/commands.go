package remote

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goshell/config"
	"goshell/internal/errors"
	"goshell/internal/metrics"
	"goshell/shell"
	"goshell/util"
)

// Commands returns the network command set for a dispatcher: hosting,
// connecting, and the two transfer commands.
func Commands(cfg *config.Config, server *Server, client *Client,
	logger *util.Logger, m *metrics.Collector) []shell.Command {
	return []shell.Command{
		&hostCommand{
			netCommand: netCommand{"host", "host <port>",
				"Start accepting remote shell sessions on the given port."},
			cfg: cfg, server: server,
		},
		&unhostCommand{
			netCommand: netCommand{"unhost", "unhost <port>",
				"Stop hosting the given port and end its sessions."},
			server: server,
		},
		&hostsCommand{
			netCommand: netCommand{"hosts", "hosts",
				"List the ports currently being hosted."},
			server: server,
		},
		&connectCommand{
			netCommand: netCommand{"connect", "connect <host> <port>",
				"Connect to a hosted shell; further input lines run remotely until exit."},
			client: client,
		},
		&downloadCommand{
			netCommand: netCommand{"download", "download <path>",
				"Send a host file to the connected client's download directory."},
			cfg: cfg, logger: logger, metrics: m,
		},
		&uploadCommand{
			netCommand: netCommand{"upload", "upload [-o] <path>",
				"Fetch a file from the connected client into the current directory. " +
					"-o/--overwrite replaces an existing file without asking."},
			cfg: cfg, logger: logger, metrics: m,
		},
	}
}

// netCommand carries the static metadata shared by the network
// commands.
type netCommand struct {
	name     string
	synopsis string
	desc     string
}

func (c netCommand) Name() string        { return c.name }
func (c netCommand) Synopsis() string    { return c.synopsis }
func (c netCommand) Description() string { return c.desc }

// newTransfer builds a Transfer reporting to env.
func newTransfer(cfg *config.Config, logger *util.Logger, m *metrics.Collector,
	env *shell.Environment) *Transfer {
	return &Transfer{
		Logger:           logger,
		Metrics:          m,
		Report:           env.Writeln,
		ProgressDelay:    cfg.ProgressDelay,
		ProgressInterval: cfg.ProgressInterval,
	}
}

// ── host / unhost / hosts ────────────────────────────────────────────

type hostCommand struct {
	netCommand
	cfg    *config.Config
	server *Server
}

func (c *hostCommand) Execute(env *shell.Environment, args string) (shell.Status, error) {
	port, err := config.ParsePort(strings.TrimSpace(args))
	if err != nil {
		return shell.StatusContinue, err
	}

	password := c.cfg.Password
	if password == "" {
		// Inside a hosted session the prompt must travel over the
		// session's text channel, not this process's terminal.
		if env.IsConnected() {
			env.Printf("Enter encryption password (empty for none): ")
			password, err = env.ReadLine()
		} else {
			password, err = util.PromptPassword("Enter encryption password (empty for none): ")
		}
		if err != nil {
			return shell.StatusContinue, err
		}
	}

	if err := c.server.Start(port, password); err != nil {
		return shell.StatusContinue, err
	}
	env.Writeln(fmt.Sprintf("Hosting on port %d. Stop with: unhost %d", port, port))
	return shell.StatusContinue, nil
}

type unhostCommand struct {
	netCommand
	server *Server
}

func (c *unhostCommand) Execute(env *shell.Environment, args string) (shell.Status, error) {
	port, err := config.ParsePort(strings.TrimSpace(args))
	if err != nil {
		return shell.StatusContinue, err
	}
	if err := c.server.Stop(port); err != nil {
		return shell.StatusContinue, err
	}
	env.Writeln(fmt.Sprintf("Stopped hosting port %d.", port))
	return shell.StatusContinue, nil
}

type hostsCommand struct {
	netCommand
	server *Server
}

func (c *hostsCommand) Execute(env *shell.Environment, _ string) (shell.Status, error) {
	ports := c.server.Ports()
	if len(ports) == 0 {
		env.Writeln("Not hosting any port.")
		return shell.StatusContinue, nil
	}
	for _, p := range ports {
		env.Writeln(fmt.Sprintf("  %d", p))
	}
	return shell.StatusContinue, nil
}

// ── connect ──────────────────────────────────────────────────────────

type connectCommand struct {
	netCommand
	client *Client
}

func (c *connectCommand) Execute(env *shell.Environment, args string) (shell.Status, error) {
	if env.IsConnected() {
		return shell.StatusContinue, errors.New("already connected")
	}
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return shell.StatusContinue, errors.New("expected: connect <host> <port>")
	}
	port, err := config.ParsePort(fields[1])
	if err != nil {
		return shell.StatusContinue, err
	}
	return shell.StatusContinue, c.client.Connect(env, fields[0], port)
}

// ── download ─────────────────────────────────────────────────────────

// downloadCommand runs on the host side of a session: it streams one of
// the host's files back to the connected client.
type downloadCommand struct {
	netCommand
	cfg     *config.Config
	logger  *util.Logger
	metrics *metrics.Collector
}

// Streams marks this command as entering the transfer sub-protocol.
func (c *downloadCommand) Streams() bool { return true }

func (c *downloadCommand) Execute(env *shell.Environment, args string) (shell.Status, error) {
	conn, ok := env.Connection().(*Connection)
	if !ok {
		return shell.StatusContinue, errors.ErrNotConnected
	}
	args = strings.TrimSpace(args)
	if args == "" {
		return shell.StatusContinue, errors.New("expected: download <path>")
	}
	path := env.Resolve(args)

	t := newTransfer(c.cfg, c.logger, c.metrics, env)
	if err := t.Send(conn, env.Reader(), downloadMarker, path); err != nil {
		if errors.IsFatal(err) {
			return shell.StatusTerminate, err
		}
		return shell.StatusContinue, err
	}
	return shell.StatusContinue, nil
}

// ── upload ───────────────────────────────────────────────────────────

// uploadCommand runs on the host side of a session: it asks the client
// to push one of its files into the host's current directory.
type uploadCommand struct {
	netCommand
	cfg     *config.Config
	logger  *util.Logger
	metrics *metrics.Collector
}

// Streams marks this command as entering the transfer sub-protocol.
func (c *uploadCommand) Streams() bool { return true }

func (c *uploadCommand) Execute(env *shell.Environment, args string) (shell.Status, error) {
	conn, ok := env.Connection().(*Connection)
	if !ok {
		return shell.StatusContinue, errors.ErrNotConnected
	}

	overwrite := c.cfg.Overwrite
	fields := strings.Fields(args)
	if len(fields) > 0 && (fields[0] == "-o" || fields[0] == "--overwrite") {
		overwrite = config.OverwriteAlways
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return shell.StatusContinue, errors.New("expected: upload [-o] <path>")
	}
	// The path names a file on the client; only its base matters here.
	srcPath := strings.Join(fields, " ")
	dest := filepath.Join(env.CurrentPath(), filepath.Base(srcPath))

	if _, err := os.Stat(dest); err == nil {
		proceed, err := c.resolveOverwrite(env, overwrite, dest)
		if err != nil {
			return shell.StatusContinue, err
		}
		if !proceed {
			env.Writeln("Upload cancelled.")
			return shell.StatusContinue, nil
		}
	}

	t := newTransfer(c.cfg, c.logger, c.metrics, env)
	if _, err := t.RequestUpload(conn, env.Reader(), srcPath, env.CurrentPath()); err != nil {
		if errors.IsFatal(err) {
			return shell.StatusTerminate, err
		}
		return shell.StatusContinue, err
	}
	return shell.StatusContinue, nil
}

// resolveOverwrite applies the overwrite policy for an existing
// destination, asking the remote operator when the policy is Prompt.
func (c *uploadCommand) resolveOverwrite(env *shell.Environment,
	mode config.OverwriteMode, dest string) (bool, error) {
	switch mode {
	case config.OverwriteAlways:
		return true, nil
	case config.OverwriteNever:
		env.Writeln(fmt.Sprintf("%s already exists.", dest))
		return false, nil
	default:
		env.Printf("%s already exists. Overwrite? (y/N) ", dest)
		line, err := env.ReadLine()
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}
