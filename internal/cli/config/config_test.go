package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "dashkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.String("raw", "", "")
	flags.String("processed", "", "")
	flags.String("sales-file", "", "")
	flags.String("database", "", "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, "auto", cfg.Output)
	assert.Equal(t, filepath.Join(dir, "data", "dataset.csv"), cfg.Data.Raw)
	assert.Equal(t, filepath.Join(dir, "data", "processed_dataset.csv"), cfg.Data.Processed)
	assert.Equal(t, filepath.Join(dir, "sales.csv"), cfg.Data.Sales)
	assert.Equal(t, dataset.Window{Lo: 30, Hi: 60}, cfg.Health.AgeWindow)
	assert.Equal(t, dataset.Window{Lo: 10, Hi: 80}, cfg.Sales.UnitsWindow)
	assert.Equal(t, "age", cfg.Health.AgeColumn)
	assert.Equal(t, DefaultPort, cfg.UI.Port)
	assert.True(t, cfg.UI.AutoOpen)
}

func TestLoad_ConfigFile(t *testing.T) {
	projectDir := t.TempDir()
	cfgPath := writeConfig(t, projectDir, `
output: json
data:
  raw: input/raw.csv
  sales: /srv/sales.csv
health:
  age_window: "40-50"
sales:
  units_window: [5, 25]
ui:
  port: 9000
  auto_open: false
`)

	// Load from a different working directory to check path anchoring.
	t.Chdir(t.TempDir())

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, cfg.File)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, filepath.Join(projectDir, "input", "raw.csv"), cfg.Data.Raw)
	assert.Equal(t, "/srv/sales.csv", cfg.Data.Sales)
	assert.Equal(t, filepath.Join(projectDir, "data", "processed_dataset.csv"), cfg.Data.Processed)
	assert.Equal(t, dataset.Window{Lo: 40, Hi: 50}, cfg.Health.AgeWindow)
	assert.Equal(t, dataset.Window{Lo: 5, Hi: 25}, cfg.Sales.UnitsWindow)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
}

func TestLoad_WindowAsMap(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "health:\n  age_window:\n    lo: 20\n    hi: 25\n")
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, dataset.Window{Lo: 20, Hi: 25}, cfg.Health.AgeWindow)
}

func TestLoad_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfig(t, root, "data:\n  sales: shop/sales.csv\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, cfg.File)
	assert.Equal(t, filepath.Join(root, "shop", "sales.csv"), cfg.Data.Sales)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output: text\nui:\n  port: 9000\n")
	t.Chdir(dir)
	t.Setenv("DASHKIT_OUTPUT", "markdown")
	t.Setenv("DASHKIT_UI__PORT", "9100")
	t.Setenv("DASHKIT_HEALTH__AGE_WINDOW", "35-45")
	t.Setenv("DASHKIT_SESSION_SECRET", "s3cret")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.Output)
	assert.Equal(t, 9100, cfg.UI.Port)
	assert.Equal(t, dataset.Window{Lo: 35, Hi: 45}, cfg.Health.AgeWindow)
	assert.Equal(t, "s3cret", cfg.UI.SessionSecret)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DASHKIT_OUTPUT", "markdown")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"-o", "json", "--sales-file", "other/sales.csv"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, filepath.Join(dir, "other", "sales.csv"), cfg.Data.Sales)
	assert.False(t, cfg.Verbose, "unset flags must not override")
}

func TestLoad_FlagPathsResolveAgainstWorkingDir(t *testing.T) {
	projectDir := t.TempDir()
	cfgPath := writeConfig(t, projectDir, "data:\n  raw: raw.csv\n")
	cwd := t.TempDir()
	t.Chdir(cwd)

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--processed", "out.csv"}))

	cfg, err := Load(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(projectDir, "raw.csv"), cfg.Data.Raw)
	assert.Equal(t, filepath.Join(cwd, "out.csv"), cfg.Data.Processed)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad output", "output: yaml\n", "invalid output"},
		{"inverted window", "health:\n  age_window: \"60-30\"\n", "greater than"},
		{"garbage window", "sales:\n  units_window: lots\n", "want LO-HI"},
		{"port", "ui:\n  port: 70000\n", "out of range"},
		{"bad yaml", "output: [\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, tt.content)
			t.Chdir(dir)

			_, err := Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("nope.yaml", nil)
	require.Error(t, err)
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    dataset.Window
		wantErr bool
	}{
		{in: "30-60", want: dataset.Window{Lo: 30, Hi: 60}},
		{in: " 30 - 60 ", want: dataset.Window{Lo: 30, Hi: 60}},
		{in: "10:80", want: dataset.Window{Lo: 10, Hi: 80}},
		{in: "1.5,2.5", want: dataset.Window{Lo: 1.5, Hi: 2.5}},
		{in: "-10-5", want: dataset.Window{Lo: -10, Hi: 5}},
		{in: "5-5", want: dataset.Window{Lo: 5, Hi: 5}},
		{in: "60-30", wantErr: true},
		{in: "30", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindow(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := Default()
	cfg.Health.AgeWindow = dataset.Window{Lo: 1, Hi: 2}
	cfg.Sales.RegionColumn = "area"

	assert.Equal(t, dataset.Window{Lo: 1, Hi: 2}, cfg.HealthOptions().DefaultWindow)
	assert.Equal(t, "area", cfg.SalesOptions().RegionColumn)
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx), "missing logger falls back to discard")
	assert.Equal(t, Default(), FromContext(ctx))

	cfg := Default()
	cfg.Output = "json"
	assert.Same(t, cfg, FromContext(WithConfig(ctx, cfg)))
}
