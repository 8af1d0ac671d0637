package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dashkit/internal/cli/config"
)

func TestRootCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()

	for _, flag := range []string{"config", "raw", "processed", "sales-file", "database", "verbose", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.True(t, cmd.SilenceUsage)
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"version", "process", "health", "sales", "ui", "tui", "init", "completion"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCmd_LoadsConfigIntoContext(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: json\ndata:\n  sales: shop.csv\n"), 0o600))
	t.Chdir(t.TempDir())

	var got *config.Config
	root := NewRootCmd()
	root.AddCommand(&cobra.Command{
		Use: "inspect",
		Run: func(cmd *cobra.Command, _ []string) {
			got = config.FromContext(cmd.Context())
		},
	})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"inspect", "--config", cfgPath, "--processed", "p.csv", "-v"})
	require.NoError(t, root.Execute())

	require.NotNil(t, got)
	assert.Equal(t, "json", got.Output)
	assert.Equal(t, filepath.Join(dir, "shop.csv"), got.Data.Sales)
	assert.True(t, filepath.IsAbs(got.Data.Processed))
	assert.Equal(t, "p.csv", filepath.Base(got.Data.Processed))
	assert.True(t, got.Verbose)
}

func TestCompletionCommand(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"completion", "bash"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "dashkit")
}
