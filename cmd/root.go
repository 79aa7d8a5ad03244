// Package cmd wires up the CLI flags and starts the interactive shell.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"goshell/config"
	"goshell/internal/metrics"
	"goshell/remote"
	"goshell/shell"
	"goshell/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X goshell/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the interactive shell until it exits or
// ctx is cancelled.
func Execute(ctx context.Context, args []string) error {
	cfg := config.Default()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("goshell", flag.ContinueOnError)

	// ── shell ────────────────────────────────────────────────────
	fs.StringVarP(&cfg.StartDir, "dir", "d", cfg.StartDir, "Starting directory")
	fs.StringVar(&cfg.DownloadDir, "downloads", cfg.DownloadDir, "Download directory for connect sessions")

	// ── transfers ────────────────────────────────────────────────
	var overwrite string
	fs.StringVar(&overwrite, "overwrite", "", "Upload overwrite policy: prompt|always|never")
	var progressSec int
	fs.IntVar(&progressSec, "progress-interval", 0, "Seconds between transfer progress reports")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}
	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("goshell %s\n", version)
		return nil
	}

	if overwrite != "" {
		mode, err := config.ParseOverwriteMode(overwrite)
		if err != nil {
			return err
		}
		cfg.Overwrite = mode
	}
	if progressSec > 0 {
		cfg.ProgressInterval = time.Duration(progressSec) * time.Second
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	if cfg.Timestamps {
		logger.SetTimestamps(true)
	}
	collector := metrics.New()
	registry := remote.NewRegistry()

	dispatcher := shell.NewDispatcher(logger)
	dispatcher.Register(shell.LocalCommands()...)

	server := remote.NewServer(cfg, dispatcher, registry, logger, collector)
	client := remote.NewClient(cfg, logger, collector)
	dispatcher.Register(remote.Commands(cfg, server, client, logger, collector)...)
	defer server.StopAll()

	env := shell.NewEnvironment(os.Stdin, os.Stdout, cfg.StartDir)
	env.Writeln(fmt.Sprintf("goshell %s. Type help for commands.", version))

	// The dispatcher blocks on stdin, so cancellation is handled by
	// letting the process exit; hosted sessions are stopped above.
	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatcher.Run(env)
	}()

	select {
	case <-ctx.Done():
		logger.Info("interrupted")
		return nil
	case <-done:
		return nil
	}
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `goshell – interactive file-management shell v%s

A local shell with remote hosting and encrypted file transfer.

Usage:
  goshell [options]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Shell commands:
  host 9000            Accept remote sessions on port 9000
  connect host 9000    Attach to a hosted shell
  download <path>      (while hosted) send a file to the client
  upload [-o] <path>   (while hosted) fetch a file from the client

Environment:
  GOSHELL_DIR, GOSHELL_DOWNLOADS, GOSHELL_PASSWORD,
  GOSHELL_OVERWRITE, GOSHELL_PROGRESS_INTERVAL, GOSHELL_VERBOSE,
  GOSHELL_TIMESTAMPS
`)
}
