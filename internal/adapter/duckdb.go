package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/dashkit/internal/dataset"
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DuckDBAdapter reads CSV files with DuckDB's CSV sniffer.
type DuckDBAdapter struct {
	db     *sql.DB
	config Config
	logger *slog.Logger
}

// NewDuckDBAdapter creates a new DuckDB adapter instance.
func NewDuckDBAdapter(logger *slog.Logger) *DuckDBAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDBAdapter{logger: logger}
}

// Connect establishes a connection to DuckDB.
func (a *DuckDBAdapter) Connect(ctx context.Context, cfg Config) error {
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.db = db
	a.config = cfg
	return nil
}

// Close closes the DuckDB connection.
func (a *DuckDBAdapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// ReadCSV loads a CSV file with a header row into a dataset. Only numeric
// column types are detected; dates, times and booleans keep their text unless
// listed in opts.DateColumns, which are read as TIMESTAMP.
// A missing file yields an error matching fs.ErrNotExist.
func (a *DuckDBAdapter) ReadCSV(ctx context.Context, path string, opts ReadOptions) (*dataset.Dataset, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("csv file %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	query := readCSVQuery(absPath, opts)
	a.logger.Debug("reading csv", "path", absPath, "query", query)

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	ds, err := ScanDataset(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}

	a.logger.Debug("csv loaded", "path", absPath, "rows", ds.Len(), "columns", len(ds.Columns()))
	return ds, nil
}

// typeCandidates limits sniffing to numbers so that text which merely looks
// like a date, time or boolean is written back unchanged.
const typeCandidates = "['BIGINT', 'DOUBLE', 'VARCHAR']"

// readCSVQuery builds the read_csv_auto statement for a file.
func readCSVQuery(absPath string, opts ReadOptions) string {
	var b strings.Builder
	b.WriteString("SELECT * FROM read_csv_auto(")
	b.WriteString(quoteLiteral(absPath))
	b.WriteString(", header=true, auto_type_candidates=")
	b.WriteString(typeCandidates)
	if len(opts.DateColumns) > 0 {
		types := make([]string, len(opts.DateColumns))
		for i, c := range opts.DateColumns {
			types[i] = quoteLiteral(c) + ": 'TIMESTAMP'"
		}
		b.WriteString(", types={")
		b.WriteString(strings.Join(types, ", "))
		b.WriteString("}")
	}
	b.WriteString(")")
	return b.String()
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Ensure DuckDBAdapter implements Reader
var _ Reader = (*DuckDBAdapter)(nil)
