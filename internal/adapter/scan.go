package adapter

import (
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// ScanDataset drains rows into a dataset, typing columns from their database
// type names. The caller closes rows.
func ScanDataset(rows *sql.Rows) (*dataset.Dataset, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	columns := make([]dataset.Column, len(colTypes))
	for i, ct := range colTypes {
		columns[i] = dataset.Column{
			Name: ct.Name(),
			Type: columnType(ct.DatabaseTypeName()),
		}
	}

	var out []dataset.Row
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(out)+1, err)
		}

		row := make(dataset.Row, len(columns))
		for i, v := range values {
			row[i] = normalizeValue(v, columns[i].Type)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return dataset.New(columns, out), nil
}

const timeOfDay = "15:04:05.999999999"

// columnType maps a database type name onto a dataset column type.
func columnType(dbType string) dataset.ColumnType {
	t := strings.ToUpper(dbType)
	switch {
	case t == "BOOLEAN" || t == "BOOL":
		return dataset.TypeBool
	case strings.HasPrefix(t, "DATE") || strings.HasPrefix(t, "TIMESTAMP"):
		return dataset.TypeDate
	case strings.HasPrefix(t, "TIME"):
		return dataset.TypeString
	case strings.Contains(t, "INT"),
		strings.HasPrefix(t, "DOUBLE"),
		strings.HasPrefix(t, "FLOAT"),
		strings.HasPrefix(t, "REAL"),
		strings.HasPrefix(t, "DECIMAL"),
		strings.HasPrefix(t, "NUMERIC"):
		return dataset.TypeNumeric
	default:
		return dataset.TypeString
	}
}

// normalizeValue converts a scanned driver value into a dataset cell.
func normalizeValue(v any, typ dataset.ColumnType) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return normalizeValue(string(x), typ)
	case string:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x) //nolint:gosec // row counts and ids from CSV files fit in int64
	case float32:
		return float64(x)
	case float64:
		return x
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case bool:
		return x
	case time.Time:
		if typ != dataset.TypeDate {
			// TIME arrives as a time on 0001-01-01.
			return x.Format(timeOfDay)
		}
		return x
	default:
		if typ == dataset.TypeNumeric {
			var f float64
			if _, err := fmt.Sscan(fmt.Sprint(x), &f); err == nil {
				return f
			}
		}
		return fmt.Sprint(x)
	}
}
