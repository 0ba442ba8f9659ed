package main

import (
	"os"

	"github.com/dd0wney/phewas-explorer/pkg/filter"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var output, filters string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the filtered dataset as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := filter.Parse(filters)
			if err != nil {
				return err
			}
			exp, err := a.gateway.Export(cmd.Context(), fs.String())
			if err != nil {
				statusLine(false, "export failed: %v", err)
				return err
			}

			if output == "" || output == "-" {
				if _, err := os.Stdout.Write(exp.CSV); err != nil {
					return err
				}
			} else if err := os.WriteFile(output, exp.CSV, 0o644); err != nil {
				return err
			}

			if exp.Rows >= 0 {
				statusLine(true, "exported %d rows %s", exp.Rows, subtle.Sprintf("(%d bytes)", len(exp.CSV)))
			} else {
				statusLine(true, "exported %d bytes", len(exp.CSV))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&filters, "filters", "", "filter string; empty exports everything")
	return cmd
}
