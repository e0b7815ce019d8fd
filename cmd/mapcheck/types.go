package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mapcheck/internal/analyze"
	"mapcheck/internal/mapping"
)

func newTypesCommand(root *rootOptions) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "types MANIFEST [TYPE...]",
		Short: "Show how manifest types resolve",
		Long: `Types resolves the given type expressions (by default every type declared
in the manifest) and lists their member paths. With --dump the full
descriptors are printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, r, err := root.loadManifest(cmd, args[0])
			if err != nil {
				return err
			}

			exprs := args[1:]
			if len(exprs) == 0 {
				for _, decl := range f.Types {
					exprs = append(exprs, decl.Name)
				}
			}

			return writeTypes(cmd.OutOrStdout(), r, exprs, root.cfg.MaxDepth, dump)
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump full descriptors")

	return cmd
}

func writeTypes(w io.Writer, r *mapping.Resolver, exprs []string, maxDepth int, dump bool) error {
	title := color.New(color.FgCyan, color.Bold)

	dumper := spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                4,
		DisableMethods:          true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}

	for _, expr := range exprs {
		d, err := r.Resolve(expr)
		if err != nil {
			return err
		}

		if _, err := title.Fprintf(w, "%s (%s)\n", d, d.Kind); err != nil {
			return err
		}

		for _, p := range analyze.MemberPaths(d, maxDepth) {
			if _, err := fmt.Fprintf(w, "  %s\n", p); err != nil {
				return err
			}
		}

		if dump {
			dumper.Fdump(w, d)
		}
	}

	return nil
}
