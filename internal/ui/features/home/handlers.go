// Package home provides the landing page listing the dashboards.
package home

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
	"github.com/leapstack-labs/dashkit/internal/ui/views"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	deps common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Page renders the dashboard index with the shape of each data file.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	cards := []views.IndexCard{
		{
			Title:       "Stakeholder Dashboard",
			Href:        "/health",
			Description: "Health records with free-text search and an age filter.",
			Path:        h.deps.Paths.Health,
		},
		{
			Title:       "Sales Dashboard",
			Href:        "/sales",
			Description: "Sales by region and product with revenue over time.",
			Path:        h.deps.Paths.Sales,
		},
	}
	for i := range cards {
		cards[i].Status = h.status(r.Context(), cards[i].Path)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Index(cards).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handlers) status(ctx context.Context, path string) string {
	ds, err := h.deps.Source.Get(ctx, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "not found"
	case err != nil:
		h.deps.Log().Warn("failed to load dataset for index", "path", path, "error", err)
		return "unreadable"
	default:
		return ds.Shape().String()
	}
}
