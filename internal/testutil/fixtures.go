package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// HealthCSV is a processed health dataset with ages on both edges of the
// default 30-60 window.
const HealthCSV = `name,age,condition
Ann,29,Cholesterol
Bob,30,Diabetes
Cid,45,Hypertension
Dee,60,Asthma
Eve,72,cholesterol check
`

// SalesCSV covers two regions, two products and two dates with a repeated
// date so revenue has to be summed.
const SalesCSV = `date,region,product,units_sold,revenue
2024-01-01,West,Widget,10,10
2024-01-01,West,Widget,20,5
2024-01-02,West,Widget,30,7
2024-01-01,East,Widget,40,100
2024-01-02,West,Gadget,50,200
2024-01-03,East,Gadget,90,300
`

// WriteCSV writes content to name inside a fresh temp dir and returns the path.
func WriteCSV(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
