package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edumap/edumap-api/internal/domain/completeness"
)

func newSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "Print the field classification table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SECTION\tREQUIRED\tIMPORTANT")
			for _, s := range completeness.AllSections() {
				c := completeness.ClassificationFor(s)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s, joinOrDash(c.Required), joinOrDash(c.Important))
			}
			return tw.Flush()
		},
	}
}
