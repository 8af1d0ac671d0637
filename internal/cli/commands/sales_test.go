package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dashkit/internal/cli/output"
	"github.com/leapstack-labs/dashkit/internal/cli/testutil"
)

func TestSalesCommand_Markdown(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.TestConfig(dir, output.ModeMarkdown)

	out, _, err := run(t, NewSalesCommand(), cfg, "--region", "West", "--product", "Widget")
	require.NoError(t, err)

	assert.Contains(t, out, "# Sales Dashboard with Filters")
	assert.Contains(t, out, "**Region:** West")
	assert.Contains(t, out, "**Product:** Widget")
	assert.Contains(t, out, "**Units Sold Range:** 10 - 30")
	assert.Contains(t, out, "## Revenue by Date")
	assert.Contains(t, out, "| 2024-01-01 | 15 |")
	assert.Contains(t, out, "| 2024-01-02 | 7 |")
	testutil.AssertValidMarkdown(t, out)
}

func TestSalesCommand_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.TestConfig(dir, output.ModeJSON)

	out, _, err := run(t, NewSalesCommand(), cfg, "--region", "Nowhere", "--search", "gad")
	require.NoError(t, err)

	var got struct {
		Region   string            `json:"region"`
		Regions  []string          `json:"regions"`
		Products []string          `json:"products"`
		Results  output.TableData  `json:"results"`
		Revenue  []json.RawMessage `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "All", got.Region, "unknown region falls back to All")
	assert.Equal(t, []string{"All", "East", "West"}, got.Regions)
	assert.Equal(t, []string{"All", "Gadget", "Widget"}, got.Products)
	assert.Equal(t, 1, got.Results.Count, "only the 50 unit gadget sale is inside 10-80")
	assert.Len(t, got.Revenue, 1)
}

func TestSalesCommand_Chart(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.TestConfig(dir, output.ModeMarkdown)
	chartPath := filepath.Join(dir, "revenue.svg")

	out, _, err := run(t, NewSalesCommand(), cfg, "--chart", chartPath)
	require.NoError(t, err)

	svg, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, out, "revenue chart")
}

func TestSalesCommand_ChartWithNoRows(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.TestConfig(dir, output.ModeMarkdown)
	chartPath := filepath.Join(dir, "revenue.svg")

	out, _, err := run(t, NewSalesCommand(), cfg, "--search", "zzz", "--chart", chartPath)
	require.NoError(t, err)

	assert.NoFileExists(t, chartPath)
	assert.Contains(t, out, "No revenue to chart.")
}

func TestSalesCommand_InvalidUnits(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.TestConfig(dir, output.ModeMarkdown)

	_, _, err := run(t, NewSalesCommand(), cfg, "--units", "80-10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--units")
}

func TestSalesCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := testutil.TestConfig(dir, output.ModeMarkdown)

	_, errOut, err := run(t, NewSalesCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Sales dataset not found")
}

func TestSalesCommand_UnknownColumn(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.TestConfig(dir, output.ModeMarkdown)
	cfg.Sales.RegionColumn = "territory"

	out, errOut, err := run(t, NewSalesCommand(), cfg)
	require.NoError(t, err, "column errors are shown in the view")

	assert.Contains(t, errOut, "> **Error:** column not found: territory")
	assert.NotContains(t, out, "Sales Data")
}
