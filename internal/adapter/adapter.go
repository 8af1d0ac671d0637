// Package adapter reads tabular files into datasets through an embedded
// database engine.
package adapter

import (
	"context"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// Config holds the configuration for opening the engine.
type Config struct {
	// Path is the database file. Empty or ":memory:" keeps everything in memory.
	Path string
}

// ReadOptions tunes how a CSV file is read.
type ReadOptions struct {
	// DateColumns are forced to TIMESTAMP instead of relying on type detection.
	// A time of day is kept; midnight values format as plain dates.
	DateColumns []string
}

// Reader loads a CSV file into a dataset.
type Reader interface {
	ReadCSV(ctx context.Context, path string, opts ReadOptions) (*dataset.Dataset, error)
}
