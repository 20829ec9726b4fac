package commands

import (
	"krossbooking/cmd/kross-cli/utils"
	"krossbooking/lib/scrapers/kross"
	"krossbooking/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var filterableOnly bool

func init() {
	fieldsCmd.Flags().BoolVar(&filterableOnly, "filterable", false, "Only lists the fields that can be used in a filter.")
	rootCmd.AddCommand(fieldsCmd)
}

func matchField(f kross.Field, matchers []string) bool {
	return textutil.MatchName(f.String(), matchers) ||
		textutil.MatchName(f.Key(), matchers) ||
		textutil.MatchName(f.Label(), matchers)
}

var fieldsCmd = &cobra.Command{
	Use:   "fields [search] [--filterable]",
	Short: "Prints the reservation fields known to the client, optionally only the ones matching search.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var matchers []string
		if len(args) > 0 {
			matchers = []string{textutil.NormalizeName(args[0])}
		}

		t := utils.NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Key", "Label", "Filterable"})
		for _, f := range kross.AllFields() {
			if filterableOnly && !f.Filterable() {
				continue
			}
			if matchers != nil && !matchField(f, matchers) {
				continue
			}
			filterable := ""
			if f.Filterable() {
				filterable = "yes"
			}
			t.AppendRow(table.Row{f.String(), f.Key(), f.Label(), filterable})
		}
		t.Render()
	},
}
