package main

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			w := cmd.OutOrStdout()

			_, _ = titleColor.Fprint(w, "mapcheck version: ")
			_, _ = w.Write([]byte(Version + "\n"))

			_, _ = titleColor.Fprint(w, "Git commit: ")
			_, _ = w.Write([]byte(GitCommit + "\n"))

			_, _ = titleColor.Fprint(w, "Go version: ")
			_, _ = w.Write([]byte(runtime.Version() + "\n"))
		},
	}
}
