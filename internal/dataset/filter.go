package dataset

import (
	"strings"

	"golang.org/x/text/cases"
)

// Window is an inclusive numeric range.
type Window struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Contains reports whether f lies within the window, bounds included.
func (w Window) Contains(f float64) bool {
	return f >= w.Lo && f <= w.Hi
}

// Clamp limits both ends of w to bounds. The result is never inverted.
func (w Window) Clamp(bounds Window) Window {
	lo := clamp(w.Lo, bounds.Lo, bounds.Hi)
	hi := clamp(w.Hi, bounds.Lo, bounds.Hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	return Window{Lo: lo, Hi: hi}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Search keeps rows where any cell's string form contains term, ignoring
// case. Missing cells format as "" and never match. An empty term keeps
// every row.
func (d *Dataset) Search(term string) *Dataset {
	if term == "" {
		return d.Where(func(Row) bool { return true })
	}
	match := containsFolded(term)
	return d.Where(func(r Row) bool {
		for _, v := range r {
			if match(Format(v)) {
				return true
			}
		}
		return false
	})
}

// SearchColumn keeps rows where the named column contains term, ignoring
// case. Missing cells never match.
func (d *Dataset) SearchColumn(column, term string) (*Dataset, error) {
	idx, err := d.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return d.Where(func(Row) bool { return true }), nil
	}
	match := containsFolded(term)
	return d.Where(func(r Row) bool {
		return r[idx] != nil && match(Format(r[idx]))
	}), nil
}

// Between keeps rows whose numeric value in column lies within w.
// Missing and non-numeric cells are dropped.
func (d *Dataset) Between(column string, w Window) (*Dataset, error) {
	idx, err := d.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	return d.Where(func(r Row) bool {
		f, ok := Float(r[idx])
		return ok && w.Contains(f)
	}), nil
}

// Equal keeps rows whose cell in column has the string form value.
func (d *Dataset) Equal(column, value string) (*Dataset, error) {
	idx, err := d.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	return d.Where(func(r Row) bool {
		return r[idx] != nil && Format(r[idx]) == value
	}), nil
}

// containsFolded returns a matcher for term using Unicode case folding.
// A Caser is stateful, so each matcher owns one.
func containsFolded(term string) func(string) bool {
	fold := cases.Fold()
	needle := fold.String(term)
	return func(s string) bool {
		return strings.Contains(fold.String(s), needle)
	}
}
