// Package processor turns a raw CSV dataset into its deduplicated,
// processed copy.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/dashkit/internal/adapter"
	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// MissingInputError reports that the raw input file does not exist.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// Unwrap lets errors.Is(err, fs.ErrNotExist) match.
func (e *MissingInputError) Unwrap() error {
	return fs.ErrNotExist
}

// Result describes one processing run.
type Result struct {
	Dataset    *dataset.Dataset
	Before     dataset.Shape
	After      dataset.Shape
	OutputPath string
	// SaveErr is set when the processed dataset could not be written.
	// The run still succeeds and Dataset holds the processed rows.
	SaveErr error
}

// Removed returns how many duplicate rows were dropped.
func (r *Result) Removed() int {
	return r.Before.Rows - r.After.Rows
}

// Processor deduplicates CSV datasets.
type Processor struct {
	reader adapter.Reader
	logger *slog.Logger
}

// New creates a processor reading input through reader.
func New(reader adapter.Reader, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{reader: reader, logger: logger}
}

// Process loads inputPath, drops exact duplicate rows and writes the result
// to outputPath. A missing input returns *MissingInputError and writes
// nothing. A failed write is recorded in Result.SaveErr and is not returned
// as an error.
func (p *Processor) Process(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	if _, err := os.Stat(inputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: inputPath}
		}
		return nil, fmt.Errorf("failed to stat input %s: %w", inputPath, err)
	}

	raw, err := p.reader.ReadCSV(ctx, inputPath, adapter.ReadOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", inputPath, err)
	}
	res := &Result{Before: raw.Shape()}
	p.logger.Info("original dataset shape", "shape", res.Before.String(), "rows", res.Before.Rows, "columns", res.Before.Columns)

	processed := raw.Dedup()
	res.Dataset = processed
	res.After = processed.Shape()
	p.logger.Info("dataset shape after removing duplicates", "shape", res.After.String(), "removed", res.Removed())

	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		absOut = outputPath
	}
	res.OutputPath = absOut

	p.logger.Info("attempting to save processed dataset", "path", absOut)
	if err := save(processed, absOut); err != nil {
		res.SaveErr = err
		p.logger.Error("failed to save processed dataset", "path", absOut, "error", err)
		return res, nil
	}
	p.logger.Info("processed dataset saved", "path", absOut)

	return res, nil
}

func save(ds *dataset.Dataset, path string) (err error) {
	f, err := os.Create(path) //nolint:gosec // output path comes from configuration
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return ds.WriteCSV(f)
}
