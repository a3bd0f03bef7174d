package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFamiliesCmd(e *env) *cobra.Command {
	var (
		filter string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "families",
		Short: "List the font families of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := e.fetchCatalog(cmd.Context())
			if err != nil {
				return err
			}
			families := cat.Filter(filter)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(families)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FAMILY\tCATEGORY\tVARIANTS")
			for _, f := range families {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Category, strings.Join(f.Variants, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only families whose name contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
