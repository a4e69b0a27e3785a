// Package main provides the dwdata command, which extracts Dog Witch equipment
// data from an AssetRipper export and publishes it to the wiki.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, newCommandContext(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// execute runs the command line in args and flushes the logger afterwards,
// including when the command failed.
func execute(ctx context.Context, cmdCtx *commandContext, args []string, out io.Writer) error {
	defer cmdCtx.close()

	cmd := newRootCommand(cmdCtx)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd.ExecuteContext(ctx)
}
