package dataset

import (
	"fmt"
	"sort"
	"time"
)

// Point is one entry of an aggregated series.
type Point struct {
	Key   any     `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Time returns the point's key as a time when it is a date.
func (p Point) Time() (time.Time, bool) {
	t, ok := p.Key.(time.Time)
	return t, ok
}

// GroupSum groups rows by the by column and sums the numeric value column,
// returning one point per distinct key in ascending key order. Rows with a
// missing key are skipped; missing or non-numeric values count as zero.
func (d *Dataset) GroupSum(by, value string) ([]Point, error) {
	byIdx, err := d.ColumnIndex(by)
	if err != nil {
		return nil, err
	}
	valIdx, err := d.ColumnIndex(value)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]*Point)
	for _, r := range d.rows {
		key := r[byIdx]
		if key == nil {
			continue
		}
		label := Format(key)
		p, ok := sums[label]
		if !ok {
			p = &Point{Key: key, Label: label}
			sums[label] = p
		}
		if f, ok := Float(r[valIdx]); ok {
			p.Value += f
		}
	}

	points := make([]Point, 0, len(sums))
	for _, p := range sums {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return less(points[i].Key, points[j].Key)
	})
	return points, nil
}

// String renders a point as "label=value".
func (p Point) String() string {
	return fmt.Sprintf("%s=%s", p.Label, formatFloat(p.Value))
}
