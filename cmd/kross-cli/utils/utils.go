package utils

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// Row converts a slice of cells into a table.Row.
func Row[T any](cells []T) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
