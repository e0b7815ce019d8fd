package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mapcheck/internal/analyze"
	"mapcheck/internal/config"
	"mapcheck/internal/logging"
	"mapcheck/internal/mapping"
	"mapcheck/internal/report"
)

// errFindings signals that the check produced error-severity findings.
var errFindings = errors.New("mapping check failed")

// rootOptions holds the persistent flags and what is derived from them.
type rootOptions struct {
	configPath string
	logLevel   string
	dev        bool
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mapcheck",
		Short: "Static checker for object-to-object mapping calls",
		Long: `mapcheck reads a call-site manifest and reports mapping calls whose source
and destination types cannot be mapped safely: nullability mismatches,
incompatible members, members missing from the source and risky overrides.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./mapcheck.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.BoolVar(&opts.dev, "dev", false, "human-readable development logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newTypesCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (o *rootOptions) init(cmd *cobra.Command) error {
	if o.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	logger, err := logging.New(cfg.LogLevel, o.dev)
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logger.With(zap.String("command", cmd.Name()))

	return nil
}

// loadManifest parses and validates the manifest, loading the Go packages it
// names relative to the manifest's directory. Validation problems are written
// to the command's error stream; any error-severity problem aborts.
func (o *rootOptions) loadManifest(cmd *cobra.Command, path string) (*mapping.File, *mapping.Resolver, error) {
	f, err := mapping.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var graph *analyze.TypeGraph

	if len(f.Packages) > 0 {
		o.logger.Debug("loading packages", zap.Strings("patterns", f.Packages))

		graph, err = analyze.NewLoader(filepath.Dir(path)).LoadPackages(f.Packages...)
		if err != nil {
			return nil, nil, err
		}
	}

	diags := mapping.Validate(f, graph)
	if diags.Len() > 0 {
		if err := report.WriteDiagnostics(cmd.ErrOrStderr(), diags, o.noColor); err != nil {
			return nil, nil, err
		}
	}

	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("manifest %s: %d problems", path, len(diags.Errors))
	}

	r, err := f.Resolver(graph)
	if err != nil {
		return nil, nil, err
	}

	return f, r, nil
}
