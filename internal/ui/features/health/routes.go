package health

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
)

// SetupRoutes configures routes for the health feature.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Route("/health", func(r chi.Router) {
		r.Get("/", handlers.Page)
		r.Post("/filter", handlers.Filter)
		r.Get("/updates", handlers.Updates)
	})

	return nil
}
