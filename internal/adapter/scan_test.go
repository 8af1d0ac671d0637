package adapter

import (
	"database/sql"
	"math/big"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

func queryMock(t *testing.T, setup func(mock sqlmock.Sqlmock)) *sql.Rows {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	setup(mock)

	rows, err := db.Query("SELECT * FROM read_csv_auto('x.csv')")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rows.Close() })
	return rows
}

func TestScanDataset(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := queryMock(t, func(mock sqlmock.Sqlmock) {
		r := mock.NewRowsWithColumnDefinition(
			mock.NewColumn("date").OfType("DATE", time.Time{}),
			mock.NewColumn("region").OfType("VARCHAR", ""),
			mock.NewColumn("units_sold").OfType("BIGINT", int64(0)),
			mock.NewColumn("revenue").OfType("DOUBLE", float64(0)),
			mock.NewColumn("promo").OfType("BOOLEAN", false),
		).
			AddRow(day, "West", int64(12), 99.5, true).
			AddRow(day, []byte("East"), int64(3), nil, false)
		mock.ExpectQuery("read_csv_auto").WillReturnRows(r)
	})

	ds, err := ScanDataset(rows)
	require.NoError(t, err)

	assert.Equal(t, []dataset.Column{
		{Name: "date", Type: dataset.TypeDate},
		{Name: "region", Type: dataset.TypeString},
		{Name: "units_sold", Type: dataset.TypeNumeric},
		{Name: "revenue", Type: dataset.TypeNumeric},
		{Name: "promo", Type: dataset.TypeBool},
	}, ds.Columns())

	assert.Equal(t, []dataset.Row{
		{day, "West", int64(12), 99.5, true},
		{day, "East", int64(3), nil, false},
	}, ds.Rows())
}

func TestScanDataset_RowError(t *testing.T) {
	rows := queryMock(t, func(mock sqlmock.Sqlmock) {
		r := sqlmock.NewRows([]string{"a"}).
			AddRow("x").
			RowError(0, assert.AnError)
		mock.ExpectQuery("read_csv_auto").WillReturnRows(r)
	})

	_, err := ScanDataset(rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		dbType string
		want   dataset.ColumnType
	}{
		{"BIGINT", dataset.TypeNumeric},
		{"INTEGER", dataset.TypeNumeric},
		{"HUGEINT", dataset.TypeNumeric},
		{"DOUBLE", dataset.TypeNumeric},
		{"DECIMAL(18,3)", dataset.TypeNumeric},
		{"DATE", dataset.TypeDate},
		{"TIMESTAMP", dataset.TypeDate},
		{"TIMESTAMP WITH TIME ZONE", dataset.TypeDate},
		{"TIME", dataset.TypeString},
		{"BOOLEAN", dataset.TypeBool},
		{"VARCHAR", dataset.TypeString},
		{"", dataset.TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.want, columnType(tt.dbType))
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		typ  dataset.ColumnType
		want any
	}{
		{"nil", nil, dataset.TypeString, nil},
		{"bytes", []byte("hi"), dataset.TypeString, "hi"},
		{"int32", int32(7), dataset.TypeNumeric, int64(7)},
		{"uint8", uint8(7), dataset.TypeNumeric, int64(7)},
		{"float32", float32(1.5), dataset.TypeNumeric, 1.5},
		{"big int", big.NewInt(42), dataset.TypeNumeric, 42.0},
		{"stringer in numeric column", stringer("2.5"), dataset.TypeNumeric, 2.5},
		{"stringer in string column", stringer("x"), dataset.TypeString, "x"},
		{"time of day", time.Date(1, 1, 1, 10, 30, 0, 0, time.UTC), dataset.TypeString, "10:30:00"},
		{"time with fraction", time.Date(1, 1, 1, 10, 30, 0, 500000000, time.UTC), dataset.TypeString, "10:30:00.5"},
		{"timestamp", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), dataset.TypeDate, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in, tt.typ))
		})
	}
}

type stringer string

func (s stringer) String() string { return string(s) }
