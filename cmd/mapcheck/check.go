package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mapcheck/internal/config"
	"mapcheck/internal/discovery"
	"mapcheck/internal/report"
)

func newCheckCommand(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check MANIFEST",
		Short: "Check the mapping calls of a manifest",
		Long: `Check reads the manifest, registers the overrides declared by its
configuration calls and checks every mapping call. The exit status is 1 when
any error-severity finding remains.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = root.cfg.Output
			}

			if format != config.OutputText && format != config.OutputJSON {
				return fmt.Errorf("unknown format %q", format)
			}

			return runCheck(cmd, root, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text or json (overrides config)")

	return cmd
}

func runCheck(cmd *cobra.Command, root *rootOptions, path, format string) error {
	f, r, err := root.loadManifest(cmd, path)
	if err != nil {
		return err
	}

	units, err := f.BuildUnits(r)
	if err != nil {
		return err
	}

	engineOpts, err := root.cfg.EngineOptions()
	if err != nil {
		return err
	}

	reportOpts, err := root.cfg.ReportOptions()
	if err != nil {
		return err
	}

	run, err := discovery.New(engineOpts, root.logger).Run(cmd.Context(), units...)
	if err != nil {
		return err
	}

	rep := report.Build(run, reportOpts)

	root.logger.Debug("report built",
		zap.String("run", rep.RunID),
		zap.Int("errors", rep.Summary.Errors),
		zap.Int("warnings", rep.Summary.Warnings),
	)

	out := cmd.OutOrStdout()
	if format == config.OutputJSON {
		err = report.WriteJSON(out, rep)
	} else {
		err = report.WriteText(out, rep, root.noColor)
	}

	if err != nil {
		return err
	}

	if rep.HasErrors() {
		return errFindings
	}

	return nil
}
