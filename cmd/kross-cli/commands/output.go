package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"krossbooking/cmd/kross-cli/utils"
	"krossbooking/lib/scrapers/kross"
)

const (
	formatTable = "table"
	formatJson  = "json"
	formatCsv   = "csv"
)

var formats = []string{formatTable, formatJson, formatCsv}

type simplifiedOutput struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// writeReservations renders the table, `simplified` only changes the json
// shape: headers once and positional rows instead of one object per row.
func writeReservations(out io.Writer, table kross.Table, format string, simplified bool) error {
	switch format {
	case formatTable, formatCsv:
		t := utils.NewTable(out)
		t.AppendHeader(utils.Row(table.Headers))
		for _, row := range table.Rows {
			t.AppendRow(utils.Row(row))
		}
		if format == formatCsv {
			t.RenderCSV()
			return nil
		}
		t.SetCaption("%d reservations", len(table.Rows))
		t.Render()
		return nil
	case formatJson:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if simplified {
			return encoder.Encode(simplifiedOutput{Headers: table.Headers, Rows: table.Rows})
		}
		return encoder.Encode(table.Records())
	}
	return fmt.Errorf("unknown format %q, expected one of %v", format, formats)
}
