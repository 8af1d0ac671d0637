package dashboard

import (
	"slices"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// All is the select option that disables a categorical filter.
const All = "All"

// SalesTitle is the sales dashboard heading.
const SalesTitle = "Sales Dashboard with Filters"

// SalesOptions configures the sales dashboard columns.
type SalesOptions struct {
	DateColumn    string
	RegionColumn  string
	ProductColumn string
	UnitsColumn   string
	RevenueColumn string
	DefaultWindow dataset.Window
}

// DefaultSalesOptions returns the stock sales settings.
func DefaultSalesOptions() SalesOptions {
	return SalesOptions{
		DateColumn:    "date",
		RegionColumn:  "region",
		ProductColumn: "product",
		UnitsColumn:   "units_sold",
		RevenueColumn: "revenue",
		DefaultWindow: dataset.Window{Lo: 10, Hi: 80},
	}
}

// SalesParams are the sidebar selections. Empty Region or Product means All.
type SalesParams struct {
	Region  string
	Product string
	// Units is the selected window; nil selects the default window.
	Units  *dataset.Window
	Search string
}

// SalesView is the rendered sales dashboard.
type SalesView struct {
	Title   string `json:"title"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`

	Regions  []string `json:"regions"`
	Region   string   `json:"region"`
	Products []string `json:"products"`
	Product  string   `json:"product"`

	UnitsBounds dataset.Window `json:"units_bounds"`
	UnitsWindow dataset.Window `json:"units_window"`
	Search      string         `json:"search,omitempty"`

	Results *dataset.Dataset `json:"-"`
	Revenue []dataset.Point  `json:"revenue"`
}

// Sales renders the sales dashboard. Filters apply cumulatively in a fixed
// order: region, product, units window, product name search. Product options
// and units bounds come from the rows left by the filters before them.
func Sales(ds *dataset.Dataset, p SalesParams, opts SalesOptions) (*SalesView, error) {
	v := &SalesView{Title: SalesTitle}
	if ds.IsEmpty() {
		v.Warning = MsgNoData
		return v, nil
	}

	work, region, regions, err := selectOption(ds, opts.RegionColumn, p.Region)
	if err != nil {
		return nil, err
	}
	v.Region, v.Regions = region, regions

	work, product, products, err := selectOption(work, opts.ProductColumn, p.Product)
	if err != nil {
		return nil, err
	}
	v.Product, v.Products = product, products

	if lo, hi, ok, err := work.Bounds(opts.UnitsColumn); err != nil {
		return nil, err
	} else if ok {
		v.UnitsBounds = sliderBounds(lo, hi)
		window := opts.DefaultWindow
		if p.Units != nil {
			window = *p.Units
		}
		v.UnitsWindow = window.Clamp(v.UnitsBounds)
	}

	work, err = work.Between(opts.UnitsColumn, v.UnitsWindow)
	if err != nil {
		return nil, err
	}

	if p.Search != "" {
		v.Search = p.Search
		work, err = work.SearchColumn(opts.ProductColumn, p.Search)
		if err != nil {
			return nil, err
		}
	}
	v.Results = work

	v.Revenue, err = work.GroupSum(opts.DateColumn, opts.RevenueColumn)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// selectOption applies a select box over column. Options are All followed by
// the sorted distinct values; a choice outside the options falls back to All.
func selectOption(ds *dataset.Dataset, column, choice string) (*dataset.Dataset, string, []string, error) {
	values, err := ds.Distinct(column)
	if err != nil {
		return nil, "", nil, err
	}
	options := append([]string{All}, values...)

	if choice == "" || choice == All || !slices.Contains(values, choice) {
		return ds, All, options, nil
	}

	filtered, err := ds.Equal(column, choice)
	if err != nil {
		return nil, "", nil, err
	}
	return filtered, choice, options, nil
}
