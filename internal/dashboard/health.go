package dashboard

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// HealthTitle is the health dashboard heading.
const HealthTitle = "Stakeholder Dashboard"

// HealthOptions configures the health dashboard.
type HealthOptions struct {
	AgeColumn     string
	DefaultWindow dataset.Window
}

// DefaultHealthOptions returns the stock health settings.
func DefaultHealthOptions() HealthOptions {
	return HealthOptions{
		AgeColumn:     "age",
		DefaultWindow: dataset.Window{Lo: 30, Hi: 60},
	}
}

// HealthParams are the user's current selections.
type HealthParams struct {
	Search string
	// Age is the selected window; nil selects the default window.
	Age *dataset.Window
}

// HealthView is the rendered health dashboard.
type HealthView struct {
	Title string `json:"title"`
	// Error is a load failure shown to the user.
	Error string `json:"error,omitempty"`
	// Warning is set when there is nothing to show; other fields are empty.
	Warning string `json:"warning,omitempty"`

	Full *dataset.Dataset `json:"-"`

	Search        string           `json:"search,omitempty"`
	SearchResults *dataset.Dataset `json:"-"`

	AgeColumn  string           `json:"age_column"`
	AgeBounds  dataset.Window   `json:"age_bounds"`
	AgeWindow  dataset.Window   `json:"age_window"`
	AgeResults *dataset.Dataset `json:"-"`
}

// HasSearch reports whether a search table should be shown.
func (v *HealthView) HasSearch() bool {
	return v.SearchResults != nil
}

// Health renders the health dashboard. The search and age results are
// independent views of the full dataset.
func Health(ds *dataset.Dataset, p HealthParams, opts HealthOptions) (*HealthView, error) {
	v := &HealthView{Title: HealthTitle, AgeColumn: opts.AgeColumn}
	if ds.IsEmpty() {
		v.Warning = MsgNoData
		return v, nil
	}
	v.Full = ds

	if p.Search != "" {
		v.Search = p.Search
		v.SearchResults = ds.Search(p.Search)
	}

	lo, hi, ok, err := ds.Bounds(opts.AgeColumn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("column %s has no numeric values", opts.AgeColumn)
	}
	v.AgeBounds = sliderBounds(lo, hi)

	window := opts.DefaultWindow
	if p.Age != nil {
		window = *p.Age
	}
	v.AgeWindow = window.Clamp(v.AgeBounds)

	v.AgeResults, err = ds.Between(opts.AgeColumn, v.AgeWindow)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// sliderBounds truncates data bounds to integers the way an integer slider
// would.
func sliderBounds(lo, hi float64) dataset.Window {
	return dataset.Window{Lo: math.Trunc(lo), Hi: math.Trunc(hi)}
}
