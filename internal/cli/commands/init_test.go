package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dashkit/internal/cli/config"
	"github.com/leapstack-labs/dashkit/internal/dataset"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
		noFiles   []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"dashkit.yaml"},
			noFiles:   []string{"sales.csv", "data/dataset.csv"},
		},
		{
			name:      "init with sample data",
			args:      []string{"--sample"},
			wantFiles: []string{"dashkit.yaml", "sales.csv", "data/dataset.csv", ".gitignore"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "dashkit.yaml"), []byte("existing"), 0o600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "dashkit.yaml"), []byte("existing"), 0o600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"dashkit.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(tmpDir, f))
			}
			for _, f := range tt.noFiles {
				assert.NoFileExists(t, filepath.Join(tmpDir, f))
			}
		})
	}
}

func TestInitIntoDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "project")

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{target})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(target, "dashkit.yaml"))
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("sample"), "--sample flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile("dashkit.yaml")
	require.NoError(t, err, "failed to read dashkit.yaml")

	for _, expected := range []string{
		"raw: data/dataset.csv",
		"processed: data/processed_dataset.csv",
		"sales: sales.csv",
		`age_window: "30-60"`,
		`units_window: "10-80"`,
		"port: 8501",
	} {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}

	// The written file must load back to the defaults.
	cfg, err := config.Load("dashkit.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, dataset.Window{Lo: 30, Hi: 60}, cfg.Health.AgeWindow)
	assert.Equal(t, dataset.Window{Lo: 10, Hi: 80}, cfg.Sales.UnitsWindow)
	assert.Equal(t, filepath.Join(tmpDir, "sales.csv"), cfg.Data.Sales)
}
