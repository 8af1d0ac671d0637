package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/dashkit/internal/dashboard"
)

// Element ids patched by the sales handlers.
const (
	SalesContentID = "sales-content"
	SalesRefreshID = "sales-refresh"
)

// SalesSignals are the client-side signals of the sales page.
type SalesSignals struct {
	Region  string   `json:"region"`
	Product string   `json:"product"`
	UnitsLo *float64 `json:"unitsLo,omitempty"`
	UnitsHi *float64 `json:"unitsHi,omitempty"`
	Search  string   `json:"search"`
}

// SalesSignalsFor returns the signals matching a rendered view.
func SalesSignalsFor(v *dashboard.SalesView) SalesSignals {
	s := SalesSignals{Region: v.Region, Product: v.Product, Search: v.Search}
	if v.Results != nil {
		lo, hi := v.UnitsWindow.Lo, v.UnitsWindow.Hi
		s.UnitsLo, s.UnitsHi = &lo, &hi
	}
	return s
}

// SalesPage is the full sales dashboard page. chartSVG is inlined as is.
func SalesPage(v *dashboard.SalesView, chartSVG string) templ.Component {
	return Layout(v.Title, "/sales", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<div`)
		h.signalsAttr(SalesSignalsFor(v))
		h.raw(` data-init="@get('/sales/updates')"><div hidden`)
		h.attr("id", SalesRefreshID)
		h.raw(`></div>`)
		h.render(SalesContent(v, chartSVG))
		h.raw(`</div>`)
		return h.err
	}))
}

// SalesContent is the sidebar and results, re-rendered on every change.
func SalesContent(v *dashboard.SalesView, chartSVG string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<main`)
		h.attr("id", SalesContentID)
		h.raw(` class="with-sidebar"><h1>`)
		h.text(v.Title)
		h.raw(`</h1>`)
		alert(h, "error", v.Error)
		alert(h, "warning", v.Warning)
		if v.Results == nil {
			h.raw(`</main>`)
			return h.err
		}

		h.raw(`<aside><form class="filters" method="get" action="/sales"><h2>Filters</h2>`)
		selectBox(h, "Select Region", "region", "/sales/filter", v.Regions, v.Region)
		selectBox(h, "Select Product", "product", "/sales/filter", v.Products, v.Product)
		rangeInputs(h, "Units Sold Range", "units", "units", "/sales/filter", v.UnitsBounds, v.UnitsWindow)
		searchInput(h, "Search Product", "search", "/sales/filter", v.Search)
		h.raw(`<noscript><button type="submit">Apply</button></noscript></form></aside>`)

		h.raw(`<section><h2>Filtered Sales Data</h2>`)
		h.render(DataTable("sales-table", v.Results))
		h.raw(`<h2>Revenue Over Time</h2><figure id="revenue-chart">`)
		if chartSVG == "" {
			h.raw(`<figcaption>No revenue to chart.</figcaption>`)
		} else {
			h.raw(chartSVG)
		}
		h.raw(`</figure></section></main>`)
		return h.err
	})
}
