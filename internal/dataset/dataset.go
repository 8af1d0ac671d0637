// Package dataset provides the in-memory table that every dashkit component
// works on: an ordered list of typed columns and rows of cells.
//
// A Dataset is never modified after construction. Filters, dedup and
// aggregation return new values and may share row slices with their input.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrColumnNotFound is returned when an operation names a column that the
// dataset does not have.
var ErrColumnNotFound = errors.New("column not found")

// ColumnType describes how the cells of a column are interpreted.
type ColumnType string

// Column types.
const (
	TypeString  ColumnType = "string"
	TypeNumeric ColumnType = "numeric"
	TypeDate    ColumnType = "date"
	TypeBool    ColumnType = "bool"
)

// Column is a named, typed column.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Row holds one cell per column. Cells are int64, float64, string, bool,
// time.Time or nil for a missing value.
type Row []any

// Dataset is an ordered table of named columns.
type Dataset struct {
	columns []Column
	rows    []Row
}

// New creates a dataset from columns and rows. Rows are not copied.
func New(columns []Column, rows []Row) *Dataset {
	return &Dataset{columns: columns, rows: rows}
}

// Empty returns a dataset with no columns and no rows.
func Empty() *Dataset {
	return &Dataset{}
}

// Columns returns the dataset's columns.
func (d *Dataset) Columns() []Column {
	return d.columns
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Rows returns the dataset's rows. Callers must not modify them.
func (d *Dataset) Rows() []Row {
	return d.rows
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Shape returns the number of rows and columns.
func (d *Dataset) Shape() Shape {
	return Shape{Rows: len(d.rows), Columns: len(d.columns)}
}

// IsEmpty reports whether the dataset has no rows or no columns.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.rows) == 0 || len(d.columns) == 0
}

// ColumnIndex returns the position of the named column.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	for i, c := range d.columns {
		if c.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// Where returns the rows for which keep returns true, in order.
func (d *Dataset) Where(keep func(Row) bool) *Dataset {
	out := make([]Row, 0, len(d.rows))
	for _, r := range d.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return &Dataset{columns: d.columns, rows: out}
}

// Dedup drops rows that are exact duplicates of an earlier row across all
// columns. The first occurrence is kept and order is preserved.
func (d *Dataset) Dedup() *Dataset {
	seen := make(map[string]struct{}, len(d.rows))
	return d.Where(func(r Row) bool {
		key := rowKey(r)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// Distinct returns the sorted distinct non-missing values of a column in
// their string form. Numeric columns sort numerically, dates chronologically.
func (d *Dataset) Distinct(column string) ([]string, error) {
	idx, err := d.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]any)
	for _, r := range d.rows {
		if r[idx] == nil {
			continue
		}
		seen[Format(r[idx])] = r[idx]
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		return less(seen[values[i]], seen[values[j]])
	})
	return values, nil
}

// Bounds returns the minimum and maximum numeric value of a column, skipping
// missing and non-numeric cells. ok is false when no numeric cell exists.
func (d *Dataset) Bounds(column string) (lo, hi float64, ok bool, err error) {
	idx, err := d.ColumnIndex(column)
	if err != nil {
		return 0, 0, false, err
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range d.rows {
		f, isNum := Float(r[idx])
		if !isNum {
			continue
		}
		ok = true
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if !ok {
		return 0, 0, false, nil
	}
	return lo, hi, true, nil
}

// Records returns the dataset as string records, header first.
func (d *Dataset) Records() [][]string {
	out := make([][]string, 0, len(d.rows)+1)
	out = append(out, d.ColumnNames())
	for _, r := range d.rows {
		rec := make([]string, len(r))
		for i, v := range r {
			rec[i] = Format(v)
		}
		out = append(out, rec)
	}
	return out
}

// Shape is a rows x columns pair.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Columns)
}

// Format returns the string form of a cell.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Float returns the numeric value of a cell.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	default:
		return 0, false
	}
}

// rowKey encodes a row so that two rows share a key only when every cell has
// the same kind and string form.
func rowKey(r Row) string {
	var b strings.Builder
	for _, v := range r {
		b.WriteString(kind(v))
		b.WriteByte(':')
		b.WriteString(Format(v))
		b.WriteByte(0x1f)
	}
	return b.String()
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "n"
	case int64:
		return "i"
	case float64:
		return "f"
	case time.Time:
		return "t"
	case bool:
		return "b"
	default:
		return "s"
	}
}

func less(a, b any) bool {
	if fa, ok := Float(a); ok {
		if fb, ok := Float(b); ok {
			return fa < fb
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Before(tb)
		}
	}
	return Format(a) < Format(b)
}
