// Package common provides shared types and utilities for UI features.
package common

import (
	"log/slog"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/ui/notifier"
)

// Paths are the data files behind the dashboards.
type Paths struct {
	Health string
	Sales  string
}

// Deps holds what every feature handler needs.
type Deps struct {
	Source        dashboard.Source
	Paths         Paths
	HealthOptions dashboard.HealthOptions
	SalesOptions  dashboard.SalesOptions
	Sessions      sessions.Store
	Notifier      *notifier.Notifier
	Logger        *slog.Logger
}

// Log returns the configured logger or a discarding one.
func (d Deps) Log() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
