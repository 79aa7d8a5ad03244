// goshell - an interactive file-management shell with remote hosting
// and encrypted file transfer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"goshell/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "goshell: %v\n", err)
		os.Exit(1)
	}
}
