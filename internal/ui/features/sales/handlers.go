// Package sales provides the sales dashboard pages and revenue chart.
package sales

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/dashkit/internal/chart"
	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
	"github.com/leapstack-labs/dashkit/internal/ui/views"
)

// sessionKey stores the last sidebar selections.
const sessionKey = "sales"

var queryKeys = []string{"region", "product", "units_lo", "units_hi", "search"}

// Handlers provides HTTP handlers for the sales feature.
type Handlers struct {
	deps common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Page renders the full dashboard. Query parameters take precedence over the
// selections remembered in the session.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fromQuery := common.HasAny(q, queryKeys...)

	var p dashboard.SalesParams
	if fromQuery {
		p = queryParams(q)
	} else {
		var signals views.SalesSignals
		if common.LoadSelection(r, h.deps.Sessions, sessionKey, &signals) {
			p = paramsOf(signals)
		}
	}

	v := h.view(r.Context(), p)
	if fromQuery {
		h.remember(w, r, v)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.SalesPage(v, h.chartSVG(v)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Filter re-renders the sidebar, table and chart for the client's signals.
func (h *Handlers) Filter(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals views.SalesSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}
	v := h.view(r.Context(), paramsOf(signals))
	h.remember(w, r, v)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(views.SalesContent(v, h.chartSVG(v))); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	// Product options and units bounds depend on the region, so the client's
	// signals follow the server's resolved selection.
	if err := sse.MarshalAndPatchSignals(views.SalesSignalsFor(v)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Updates is the long-lived SSE endpoint for the page. When the sales file
// changes it asks the client to post its current signals to Filter.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.deps.Notifier.Subscribe()
	defer h.deps.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates.Ready():
			if !common.ChangedPath(updates.Drain(), h.deps.Paths.Sales) {
				continue
			}
			err := sse.PatchElementTempl(
				views.Refresh("/sales/filter"),
				datastar.WithSelectorID(views.SalesRefreshID),
				datastar.WithModeInner(),
			)
			if err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// Chart serves the revenue chart for the selections in the query string.
// An empty selection yields 204 No Content.
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	v := h.view(r.Context(), queryParams(r.URL.Query()))

	svg, err := chart.RevenueSVGString(v.Revenue)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if svg == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(svg))
}

func (h *Handlers) view(ctx context.Context, p dashboard.SalesParams) *dashboard.SalesView {
	ds, msg := dashboard.Load(ctx, h.deps.Source, h.deps.Paths.Sales, dashboard.MsgSalesMissing, h.deps.Log())

	v, err := dashboard.Sales(ds, p, h.deps.SalesOptions)
	if err != nil {
		h.deps.Log().Error("failed to render sales dashboard", "error", err)
		return &dashboard.SalesView{Title: dashboard.SalesTitle, Error: err.Error()}
	}
	v.Error = msg
	return v
}

func (h *Handlers) chartSVG(v *dashboard.SalesView) string {
	svg, err := chart.RevenueSVGString(v.Revenue)
	if err != nil && !errors.Is(err, chart.ErrNoData) {
		h.deps.Log().Error("failed to render revenue chart", "error", err)
	}
	return svg
}

// remember stores the selections of v. It must run before the body is written.
func (h *Handlers) remember(w http.ResponseWriter, r *http.Request, v *dashboard.SalesView) {
	if err := common.SaveSelection(w, r, h.deps.Sessions, sessionKey, views.SalesSignalsFor(v)); err != nil {
		h.deps.Log().Warn("failed to save sales selection", "error", err)
	}
}

func queryParams(q url.Values) dashboard.SalesParams {
	return dashboard.SalesParams{
		Region:  q.Get("region"),
		Product: q.Get("product"),
		Units:   common.QueryWindow(q, "units"),
		Search:  q.Get("search"),
	}
}

func paramsOf(s views.SalesSignals) dashboard.SalesParams {
	return dashboard.SalesParams{
		Region:  s.Region,
		Product: s.Product,
		Units:   common.SignalWindow(s.UnitsLo, s.UnitsHi),
		Search:  s.Search,
	}
}
