package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dashkit/internal/adapter"
	"github.com/leapstack-labs/dashkit/internal/cache"
	"github.com/leapstack-labs/dashkit/internal/cli/config"
	"github.com/leapstack-labs/dashkit/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Reader   *adapter.DuckDBAdapter
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open DuckDB reader.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutReader(cmd)

	reader, err := openReader(cmd, cc.Cfg, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	cc.Reader = reader

	cleanup := func() {
		_ = reader.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutReader creates a CommandContext without a reader.
// Useful for commands that don't read data.
func NewCommandContextWithoutReader(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewCache returns a memoized loader over the reader. The sales file is read
// with its date column parsed as DATE.
func (c *CommandContext) NewCache() *cache.Cache {
	return newCache(c.Reader, c.Cfg, c.Logger)
}

func newCache(reader adapter.Reader, cfg *config.Config, logger *slog.Logger) *cache.Cache {
	load := adapter.Loader(reader, map[string]adapter.ReadOptions{
		cfg.Data.Sales: {DateColumns: []string{cfg.Sales.DateColumn}},
	})
	return cache.New(load, logger)
}

func openReader(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*adapter.DuckDBAdapter, error) {
	reader := adapter.NewDuckDBAdapter(logger)
	if err := reader.Connect(cmd.Context(), adapter.Config{Path: cfg.Database}); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return reader, nil
}
