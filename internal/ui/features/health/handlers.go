// Package health provides the health records dashboard pages.
package health

import (
	"context"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
	"github.com/leapstack-labs/dashkit/internal/ui/views"
)

// sessionKey stores the last health selections.
const sessionKey = "health"

// Handlers provides HTTP handlers for the health feature.
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
	fromQuery := common.HasAny(q, "search", "age_lo", "age_hi")

	var p dashboard.HealthParams
	if fromQuery {
		p = dashboard.HealthParams{Search: q.Get("search"), Age: common.QueryWindow(q, "age")}
	} else {
		var signals views.HealthSignals
		if common.LoadSelection(r, h.deps.Sessions, sessionKey, &signals) {
			p = paramsOf(signals)
		}
	}

	v := h.view(r.Context(), p)
	if fromQuery {
		h.remember(w, r, v)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.HealthPage(v).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Filter re-renders the dashboard content for the client's current signals.
func (h *Handlers) Filter(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals views.HealthSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}
	v := h.view(r.Context(), paramsOf(signals))
	h.remember(w, r, v)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(views.HealthContent(v)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Updates is the long-lived SSE endpoint for the page. When the health file
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
			if !common.ChangedPath(updates.Drain(), h.deps.Paths.Health) {
				continue
			}
			err := sse.PatchElementTempl(
				views.Refresh("/health/filter"),
				datastar.WithSelectorID(views.HealthRefreshID),
				datastar.WithModeInner(),
			)
			if err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) view(ctx context.Context, p dashboard.HealthParams) *dashboard.HealthView {
	ds, msg := dashboard.Load(ctx, h.deps.Source, h.deps.Paths.Health, dashboard.MsgProcessedMissing, h.deps.Log())

	v, err := dashboard.Health(ds, p, h.deps.HealthOptions)
	if err != nil {
		h.deps.Log().Error("failed to render health dashboard", "error", err)
		return &dashboard.HealthView{Title: dashboard.HealthTitle, Error: err.Error()}
	}
	v.Error = msg
	return v
}

// remember stores the selections of v. It must run before the body is written.
func (h *Handlers) remember(w http.ResponseWriter, r *http.Request, v *dashboard.HealthView) {
	if err := common.SaveSelection(w, r, h.deps.Sessions, sessionKey, views.HealthSignalsFor(v)); err != nil {
		h.deps.Log().Warn("failed to save health selection", "error", err)
	}
}

func paramsOf(s views.HealthSignals) dashboard.HealthParams {
	return dashboard.HealthParams{Search: s.Search, Age: common.SignalWindow(s.AgeLo, s.AgeHi)}
}
