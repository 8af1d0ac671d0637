package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/dashkit/internal/dashboard"
)

// Element ids patched by the health handlers.
const (
	HealthContentID = "health-content"
	HealthRefreshID = "health-refresh"
)

// HealthSignals are the client-side signals of the health page.
type HealthSignals struct {
	Search string   `json:"search"`
	AgeLo  *float64 `json:"ageLo,omitempty"`
	AgeHi  *float64 `json:"ageHi,omitempty"`
}

// HealthSignalsFor returns the signals matching a rendered view. The age
// window is the clamped one.
func HealthSignalsFor(v *dashboard.HealthView) HealthSignals {
	s := HealthSignals{Search: v.Search}
	if v.Full != nil {
		lo, hi := v.AgeWindow.Lo, v.AgeWindow.Hi
		s.AgeLo, s.AgeHi = &lo, &hi
	}
	return s
}

// HealthPage is the full health dashboard page.
func HealthPage(v *dashboard.HealthView) templ.Component {
	return Layout(v.Title, "/health", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<div`)
		h.signalsAttr(HealthSignalsFor(v))
		h.raw(` data-init="@get('/health/updates')"><div hidden`)
		h.attr("id", HealthRefreshID)
		h.raw(`></div>`)
		h.render(HealthContent(v))
		h.raw(`</div>`)
		return h.err
	}))
}

// HealthContent is the part of the page re-rendered on every change.
func HealthContent(v *dashboard.HealthView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<main`)
		h.attr("id", HealthContentID)
		h.raw(`><h1>`)
		h.text(v.Title)
		h.raw(`</h1>`)
		alert(h, "error", v.Error)
		alert(h, "warning", v.Warning)
		if v.Full == nil {
			h.raw(`</main>`)
			return h.err
		}

		h.raw(`<h2>Full Dataset</h2>`)
		h.render(DataTable("full-table", v.Full))

		h.raw(`<form class="filters" method="get" action="/health">`)
		searchInput(h, "Search for a condition or patient", "search", "/health/filter", v.Search)
		rangeInputs(h, "Filter by "+v.AgeColumn, "age", "age", "/health/filter", v.AgeBounds, v.AgeWindow)
		h.raw(`<noscript><button type="submit">Apply</button></noscript></form>`)

		if v.HasSearch() {
			h.raw(`<h2>Search Results for &#34;`)
			h.text(v.Search)
			h.raw(`&#34;</h2>`)
			h.render(DataTable("search-table", v.SearchResults))
		}

		h.raw(`<h2>Filtered Data by Age (`)
		h.text(num(v.AgeWindow.Lo) + " - " + num(v.AgeWindow.Hi))
		h.raw(`)</h2>`)
		h.render(DataTable("age-table", v.AgeResults))
		h.raw(`</main>`)
		return h.err
	})
}
