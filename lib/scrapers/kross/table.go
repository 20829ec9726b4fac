package kross

import (
	"fmt"
	"io"
	"krossbooking/internal/components/assert"
	"krossbooking/internal/components/telemetry"
	"krossbooking/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_table_parse    = "table.parse"
	report_table_row      = "table.row"
	report_table_row_code = "table.row-code"
	report_table_rows     = "table.rows"

	reservationsTableSelector = "table#reservations"
)

// Record maps a column header to the cell text of one reservation.
type Record map[string]string

// Table is a scraped reservations table, every row is aligned positionally
// to Headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Records reshapes the table into one Record per row.
func (t Table) Records() []Record {
	records := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		record := make(Record, len(t.Headers))
		for j, header := range t.Headers {
			record[header] = row[j]
		}
		records[i] = record
	}
	return records
}

// Column returns the values of the column with the given header, in row
// order, and false if no such column exists.
func (t Table) Column(header string) ([]string, bool) {
	for j, h := range t.Headers {
		if h != header {
			continue
		}
		values := make([]string, len(t.Rows))
		for i, row := range t.Rows {
			values[i] = row[j]
		}
		return values, true
	}
	return nil, false
}

// ExtractTable scrapes the reservations table out of an HTML document.
//
// Columns with an empty header are dropped. Rows too short to cover every
// kept column and rows whose first kept cell is empty are skipped and
// reported, they never fail the extraction.
func ExtractTable(tel telemetry.API, r io.Reader) (Table, error) {
	assert.NotNil(tel)

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		tel.ReportBroken(report_table_parse, fmt.Errorf("parse html: %w", err))
		return Table{}, err
	}

	table := doc.Find(reservationsTableSelector).First()
	if table.Length() == 0 {
		tel.ReportBroken(report_table_parse, ErrTableNotFound)
		return Table{}, ErrTableNotFound
	}

	rows := table.Find("tr")
	rawHeaders := htmlutil.CellTexts(rows.First().Find("th, td"))

	var kept []int
	var headers []string
	for i, h := range rawHeaders {
		if h == "" {
			continue
		}
		kept = append(kept, i)
		headers = append(headers, h)
	}
	if len(headers) == 0 {
		tel.ReportBroken(report_table_parse, ErrNoHeaders)
		return Table{}, ErrNoHeaders
	}
	minCells := kept[len(kept)-1] + 1

	result := Table{Headers: headers, Rows: [][]string{}}
	rows.Slice(1, rows.Length()).Each(func(idx int, tr *goquery.Selection) {
		cells := htmlutil.CellTexts(tr.Find("td"))
		if len(cells) < minCells {
			tel.ReportWarning(
				report_table_row,
				fmt.Sprintf("skipping row with %d cells (expected %d)", len(cells), minCells),
				idx+1,
			)
			return
		}

		projected := make([]string, len(kept))
		for j, k := range kept {
			projected[j] = cells[k]
		}
		if projected[0] == "" {
			tel.ReportInfo(report_table_row_code, "skipping row with empty code", idx+1)
			return
		}

		result.Rows = append(result.Rows, projected)
	})

	tel.ReportCount(report_table_rows, int64(len(result.Rows)))
	return result, nil
}
