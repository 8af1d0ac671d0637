package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func sample() *dataset.Dataset {
	return dataset.New(
		[]dataset.Column{{Name: "name", Type: dataset.TypeString}, {Name: "age", Type: dataset.TypeNumeric}},
		[]dataset.Row{{"Ann", int64(29)}, {"Bob", nil}},
	)
}

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"TEXT":     ModeText,
		"markdown": ModeMarkdown,
		"md":       ModeMarkdown,
		" json ":   ModeJSON,
		"yaml":     ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), "Mode(%q)", in)
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
		assert.Equal(t, tt.want, r.EffectiveMode(), "%s tty=%v", tt.mode, tt.isTTY)
	}
}

func TestTable_Text(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)

	r.Table(sample())

	s := out.String()
	assert.Contains(t, s, "┌")
	assert.Contains(t, s, "NAME")
	assert.Contains(t, s, "Ann")
	assert.Contains(t, s, "(2 rows)")
	assert.False(t, ansiPattern.MatchString(s), "non-TTY output must be plain")
}

func TestTable_Markdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)

	r.Table(sample())

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "| name | age |", strings.ToLower(lines[0]))
	assert.Contains(t, out.String(), "| Ann | 29 |")
	assert.Contains(t, out.String(), "| Bob |  |")
	assert.Contains(t, out.String(), "_(2 rows)_")
}

func TestTable_Nil(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Table(nil)
	assert.Contains(t, out.String(), "_(0 rows)_")
}

func TestSeries(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)

	r.Series("date", "revenue", []dataset.Point{
		{Label: "2024-01-01", Value: 15},
		{Label: "2024-01-02", Value: 7.5},
	})

	assert.Contains(t, out.String(), "| 2024-01-01 | 15 |")
	assert.Contains(t, out.String(), "| 2024-01-02 | 7.5 |")
}

func TestHeaderAndMessages(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(1, "Sales")
	r.Header(2, "Revenue")
	r.Warning("no data")
	r.Error("boom")
	r.StatusLine("data/processed.csv", "success", "(2, 3)")

	assert.Contains(t, out.String(), "# Sales\n")
	assert.Contains(t, out.String(), "## Revenue\n")
	assert.Contains(t, out.String(), "✓ data/processed.csv (2, 3)")
	assert.Contains(t, errOut.String(), "> **Warning:** no data")
	assert.Contains(t, errOut.String(), "> **Error:** boom")
}

func TestTextStylesOnTTY(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, true)
	r.Success("done")
	assert.True(t, ansiPattern.MatchString(out.String()))
}

func TestJSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)

	require.NoError(t, r.JSON(NewTableData(sample())))

	var got TableData
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, [][]string{{"Ann", "29"}, {"Bob", ""}}, got.Rows)
	assert.Equal(t, "age", got.Columns[1].Name)
}

func TestNewTableData_Nil(t *testing.T) {
	got := NewTableData(nil)
	assert.Empty(t, got.Rows)
	assert.NotNil(t, got.Columns)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Results", FormatHeader(2, "Results"))
	assert.Equal(t, "# X", FormatHeader(0, "X"))
	assert.Equal(t, "**Rows:** 3", FormatKeyValue("Rows", "3"))
}
