package commands

import (
	"fmt"
	"krossbooking/cmd/kross-cli/utils"
	"krossbooking/lib/scrapers/kross"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(filterCmd)
}

var filterCmd = &cobra.Command{
	Use:   "filter <expr>...",
	Short: "Prints how filter expressions are encoded without contacting the hotel.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := parseQuery(args, nil)
		if err != nil {
			return err
		}

		t := utils.NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Filter", "Encoded"})
		for _, f := range q.Filters {
			encoded, err := f.Encode()
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{f.String(), encoded})
		}
		t.Render()

		encoded, err := kross.BuildFilters(q.Filters...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), encoded)
		return nil
	},
}
