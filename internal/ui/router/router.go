// Package router sets up HTTP routes for the UI server.
package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
	healthFeature "github.com/leapstack-labs/dashkit/internal/ui/features/health"
	homeFeature "github.com/leapstack-labs/dashkit/internal/ui/features/home"
	salesFeature "github.com/leapstack-labs/dashkit/internal/ui/features/sales"
	"github.com/leapstack-labs/dashkit/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := homeFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := healthFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := salesFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	return nil
}
