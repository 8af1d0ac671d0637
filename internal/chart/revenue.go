// Package chart renders dashboard series as SVG line charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

// Default chart size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 320
)

var lineColor = drawing.ColorFromHex("1f77b4")

// RevenueSVG writes a revenue-over-time line chart for date-keyed points.
// A single point is padded to two X values so the line has an extent.
func RevenueSVG(w io.Writer, points []dataset.Point) error {
	xs, ys, err := timeSeries(points)
	if err != nil {
		return err
	}

	graph := gochart.Chart{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat(time.DateOnly),
		},
		YAxis: gochart.YAxis{
			Name:  "revenue",
			Range: yRange(ys),
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "revenue",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    3,
				},
			},
		},
	}

	if err := graph.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("failed to render revenue chart: %w", err)
	}
	return nil
}

// RevenueSVGString renders the chart into a string. ErrNoData yields "".
func RevenueSVGString(points []dataset.Point) (string, error) {
	var buf bytes.Buffer
	if err := RevenueSVG(&buf, points); err != nil {
		if errors.Is(err, ErrNoData) {
			return "", nil
		}
		return "", err
	}
	return buf.String(), nil
}

func timeSeries(points []dataset.Point) ([]time.Time, []float64, error) {
	xs := make([]time.Time, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	for _, p := range points {
		t, ok := p.Time()
		if !ok {
			return nil, nil, fmt.Errorf("point %q is not keyed by a date", p.Label)
		}
		xs = append(xs, t)
		ys = append(ys, p.Value)
	}

	switch len(xs) {
	case 0:
		return nil, nil, ErrNoData
	case 1:
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}
	return xs, ys, nil
}

// yRange always includes zero and never collapses to a single value.
func yRange(ys []float64) *gochart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, y := range ys {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}
