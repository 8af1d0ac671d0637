package adapter

import (
	"context"
	"path/filepath"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// Loader returns a load function that reads each file with the options
// registered for it. Paths are matched in absolute, cleaned form; files
// without an entry use the zero ReadOptions.
func Loader(r Reader, byPath map[string]ReadOptions) func(ctx context.Context, path string) (*dataset.Dataset, error) {
	opts := make(map[string]ReadOptions, len(byPath))
	for p, o := range byPath {
		opts[absPath(p)] = o
	}
	return func(ctx context.Context, path string) (*dataset.Dataset, error) {
		return r.ReadCSV(ctx, path, opts[absPath(path)])
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(p)
}
