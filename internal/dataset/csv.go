package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the dataset as comma-delimited CSV with a header row and
// no index column.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(d.Records()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
