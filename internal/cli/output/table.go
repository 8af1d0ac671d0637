package output

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// TableData is the JSON form of a dataset.
type TableData struct {
	Columns []dataset.Column `json:"columns"`
	Rows    [][]string       `json:"rows"`
	Count   int              `json:"count"`
}

// NewTableData converts ds for JSON output. A nil dataset yields no rows.
func NewTableData(ds *dataset.Dataset) *TableData {
	if ds == nil {
		return &TableData{Columns: []dataset.Column{}, Rows: [][]string{}}
	}
	records := ds.Records()
	columns := ds.Columns()
	if columns == nil {
		columns = []dataset.Column{}
	}
	return &TableData{Columns: columns, Rows: records[1:], Count: ds.Len()}
}

// Table renders ds as a box-drawn table in text mode and a pipe table in
// markdown, followed by the row count.
func (r *Renderer) Table(ds *dataset.Dataset) {
	if ds == nil {
		ds = dataset.Empty()
	}
	records := ds.Records()
	r.renderTable(records[0], records[1:])
}

// Series renders aggregated points as a two-column table.
func (r *Renderer) Series(keyHeader, valueHeader string, points []dataset.Point) {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{p.Label, strconv.FormatFloat(p.Value, 'f', -1, 64)}
	}
	r.renderTable([]string{keyHeader, valueHeader}, rows)
}

func (r *Renderer) renderTable(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	h := make(table.Row, len(header))
	for i, c := range header {
		h[i] = c
	}
	t.AppendHeader(h)
	for _, rec := range rows {
		row := make(table.Row, len(rec))
		for i, c := range rec {
			row[i] = c
		}
		t.AppendRow(row)
	}

	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleLight)
		t.Render()
		r.Println(r.styles.Muted.Render(rowCount(len(rows))))
		return
	}
	t.RenderMarkdown()
	r.Println()
	r.Println("_" + rowCount(len(rows)) + "_")
	r.Println()
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}
