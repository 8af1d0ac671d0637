package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/dashkit/internal/cli/config"
	"github.com/leapstack-labs/dashkit/internal/cli/output"
)

const configHeader = `# dashkit configuration.
# Relative paths are resolved against the directory holding this file.
# Any value can be overridden with DASHKIT_ environment variables, using a
# double underscore between sections (DASHKIT_UI__PORT=9000).
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var sample bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new dashkit project",
		Long: `Initialize a dashkit project by writing a dashkit.yaml with the default
settings.

Use --sample to also write a small raw health dataset (with duplicate rows)
and a sales dataset, so every command works right away.`,
		Example: `  # Initialize in current directory
  dashkit init

  # Initialize with sample data
  dashkit init --sample

  # Initialize in a new directory
  dashkit init my-dashboards --sample

  # Force overwrite existing config
  dashkit init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := config.FromContext(cmd.Context())
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

			return runInit(r, dir, force, sample)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&sample, "sample", false, "Write sample health and sales datasets")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, sample bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.DefaultConfigFile)
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine(config.DefaultConfigFile, "success", "")

	if sample {
		files, err := copyTemplate("sample", dir, force)
		if err != nil {
			return fmt.Errorf("failed to write sample data: %w", err)
		}
		for _, f := range files {
			r.StatusLine(f, "success", "")
		}
	}

	r.Println("")
	r.Success("dashkit project initialized!")
	r.Println("")
	r.Println("Next steps:")
	if !sample {
		r.Println("  0. Put the raw dataset at " + config.DefaultRaw + " and sales at " + config.DefaultSales)
	}
	r.Println("  1. Run 'dashkit process' to remove duplicate rows")
	r.Println("  2. Run 'dashkit health' or 'dashkit sales' for a report")
	r.Println("  3. Run 'dashkit ui' to open the dashboards")

	return nil
}

// defaultConfigYAML renders the built-in configuration as YAML. Windows are
// written as "LO-HI" strings.
func defaultConfigYAML() ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(config.Default()); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	d := config.Default()
	setWindow(&node, "health", "age_window", d.Health.AgeWindow.Lo, d.Health.AgeWindow.Hi)
	setWindow(&node, "sales", "units_window", d.Sales.UnitsWindow.Lo, d.Sales.UnitsWindow.Hi)

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// setWindow replaces section.key in a mapping node with a "LO-HI" scalar.
func setWindow(root *yaml.Node, section, key string, lo, hi float64) {
	sec := mappingValue(root, section)
	if sec == nil {
		return
	}
	if v := mappingValue(sec, key); v != nil {
		*v = yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: fmt.Sprintf("%s-%s", windowEnd(lo), windowEnd(hi)),
			Style: yaml.DoubleQuotedStyle,
		}
	}
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
