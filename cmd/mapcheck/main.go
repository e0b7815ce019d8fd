// Package main provides the CLI entrypoint for mapcheck.
//
// mapcheck statically checks object-to-object mapping calls:
//   - Reads a call-site manifest describing types, configuration calls and mapping calls
//   - Registers the declared overrides for each type pair
//   - Checks every mapping call for nullability, type and member problems
//   - Reports findings as text or JSON, exiting with status 1 when errors remain
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	if errors.Is(err, errFindings) {
		stop()
		os.Exit(1)
	}

	errorColor := color.New(color.FgRed, color.Bold)
	_, _ = errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)

	stop()
	os.Exit(2)
}
