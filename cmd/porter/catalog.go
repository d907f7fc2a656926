package main

import (
	"encoding/csv"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
)

func newEntitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List the entities that can be imported and exported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tGROUP\tLABEL\tCOLUMNS")
			for _, def := range catalog.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
					def.Info.Key, def.Info.Group, def.Info.Label, def.Columns().Len())
			}
			return tw.Flush()
		},
	}
}

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <entity>",
		Short: "Print the CSV header an import of entity expects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := catalog.Lookup(args[0])
			if err != nil {
				return err
			}
			w := csv.NewWriter(cmd.OutOrStdout())
			return w.WriteAll([][]string{def.Columns().Labels()})
		},
	}
}
