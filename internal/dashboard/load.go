// Package dashboard holds the render functions behind the health and sales
// dashboards. Each function takes the loaded dataset and the current widget
// selections and returns everything a front end needs to draw; none of them
// depend on a UI framework.
package dashboard

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// Source returns the dataset stored at a path, typically through the cache.
type Source interface {
	Get(ctx context.Context, path string) (*dataset.Dataset, error)
}

// Messages shown when a dataset cannot be used.
const (
	MsgProcessedMissing = "Processed dataset not found. Please run the processing script first."
	MsgSalesMissing     = "Sales dataset not found. Please check the configured sales file."
	MsgLoadFailed       = "Dataset could not be loaded."
	MsgNoData           = "No data to display. Please ensure the dataset is processed and available."
)

// Load fetches a dataset and never fails: on error it logs, returns an empty
// dataset and a message meant for the user. missingMsg is used when the file
// does not exist.
func Load(ctx context.Context, src Source, path, missingMsg string, logger *slog.Logger) (*dataset.Dataset, string) {
	ds, err := src.Get(ctx, path)
	if err == nil {
		return ds, ""
	}

	if logger != nil {
		logger.Error("failed to load dataset", "path", path, "error", err)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return dataset.Empty(), missingMsg
	}
	return dataset.Empty(), MsgLoadFailed + " " + err.Error()
}
