package sales

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
)

// SetupRoutes configures routes for the sales feature.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Route("/sales", func(r chi.Router) {
		r.Get("/", handlers.Page)
		r.Post("/filter", handlers.Filter)
		r.Get("/updates", handlers.Updates)
		r.Get("/chart.svg", handlers.Chart)
	})

	return nil
}
