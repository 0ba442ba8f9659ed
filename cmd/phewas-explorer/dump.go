package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dd0wney/phewas-explorer/pkg/explorer"
	"github.com/dd0wney/phewas-explorer/pkg/filter"
	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Status colors
var (
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	subtle = color.New(color.FgHiBlack)
)

func statusLine(ok bool, format string, args ...any) {
	icon := good.Sprint("✓")
	if !ok {
		icon = bad.Sprint("✗")
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", icon, fmt.Sprintf(format, args...))
}

func newDumpCmd(a *app) *cobra.Command {
	var (
		output    string
		filters   string
		expandAll bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Load the graph, lay it out and write it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e := a.explorer
			r := explorer.NewRunner(e)

			effects := e.Initialize()
			if filters != "" {
				fs, err := filter.Parse(filters)
				if err != nil {
					return err
				}
				if err := e.Form().Load(fs); err != nil {
					return err
				}
				effects = e.ApplyFilters()
			}
			if err := r.Run(ctx, effects...); err != nil {
				return err
			}
			if n, ok := e.Notice(); ok && n.Level == explorer.NoticeError {
				statusLine(false, "%s", n.Text)
				return errors.New(n.Text)
			}

			if expandAll {
				if err := r.Do(ctx, (*explorer.Explorer).ExpandAllCategories); err != nil {
					return err
				}
			}

			data, err := e.Snapshot().ExportJSON()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				if _, err := os.Stdout.Write(append(data, '\n')); err != nil {
					return err
				}
			} else if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}

			s := e.Store()
			statusLine(true, "%d categories, %d diseases, %d alleles, %d edges %s",
				len(s.NodesOfKind(graph.KindCategory)),
				len(s.NodesOfKind(graph.KindDisease)),
				len(s.NodesOfKind(graph.KindAllele)),
				s.EdgeCount(),
				subtle.Sprintf("filters=%q", e.Filters()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&filters, "filters", "", `filter string, e.g. "gene_name:==:a AND p:<:0.05"`)
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "expand every category before writing")
	return cmd
}
