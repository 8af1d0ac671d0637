package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dashkit/internal/cli/config"
	"github.com/leapstack-labs/dashkit/internal/cli/output"
	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// HealthOptions holds options for the health command.
type HealthOptions struct {
	Search string
	Age    string
}

// healthReport is the JSON form of the health dashboard.
type healthReport struct {
	*dashboard.HealthView
	Full          *output.TableData `json:"full"`
	SearchResults *output.TableData `json:"search_results,omitempty"`
	AgeResults    *output.TableData `json:"age_results"`
}

// NewHealthCommand creates the health command.
func NewHealthCommand() *cobra.Command {
	opts := &HealthOptions{}

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show the health records dashboard",
		Long: `Render the health dashboard from the processed dataset.

Three tables are shown: the full dataset, rows matching --search in any
column (case-insensitive), and rows whose age lies within --age. Search
and age filters are independent of each other.`,
		Example: `  # Full dataset and the default age window
  dashkit health

  # Search and narrow the age window
  dashkit health --search chol --age 40-65

  # Machine readable
  dashkit health -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealth(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "Search for a condition or patient")
	cmd.Flags().StringVar(&opts.Age, "age", "", "Age window as LO-HI (default from config)")

	return cmd
}

func runHealth(cmd *cobra.Command, opts *HealthOptions) error {
	params := dashboard.HealthParams{Search: opts.Search}
	if opts.Age != "" {
		w, err := config.ParseWindow(opts.Age)
		if err != nil {
			return fmt.Errorf("--age: %w", err)
		}
		params.Age = &w
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ds, msg := dashboard.Load(cmd.Context(), cc.NewCache(), cc.Cfg.Data.Processed, dashboard.MsgProcessedMissing, cc.Logger)
	v, err := dashboard.Health(ds, params, cc.Cfg.HealthOptions())
	if err != nil {
		cc.Logger.Error("failed to render health dashboard", "error", err)
		v = &dashboard.HealthView{Title: dashboard.HealthTitle, AgeColumn: cc.Cfg.Health.AgeColumn, Error: err.Error()}
	} else {
		v.Error = msg
	}

	return renderHealth(cc.Renderer, v)
}

func renderHealth(r *output.Renderer, v *dashboard.HealthView) error {
	if r.EffectiveMode() == output.ModeJSON {
		report := healthReport{
			HealthView: v,
			Full:       output.NewTableData(v.Full),
			AgeResults: output.NewTableData(v.AgeResults),
		}
		if v.HasSearch() {
			report.SearchResults = output.NewTableData(v.SearchResults)
		}
		return r.JSON(report)
	}

	r.Header(1, v.Title)
	if v.Error != "" {
		r.Error(v.Error)
	}
	if v.Warning != "" {
		r.Warning(v.Warning)
		return nil
	}
	if v.Full == nil {
		return nil
	}

	r.Header(2, "Full Dataset")
	r.Table(v.Full)

	if v.HasSearch() {
		r.Header(2, fmt.Sprintf("Search Results for %q", v.Search))
		r.Table(v.SearchResults)
	}

	r.Header(2, fmt.Sprintf("Filtered Data by Age (%s - %s)", windowEnd(v.AgeWindow.Lo), windowEnd(v.AgeWindow.Hi)))
	r.Table(v.AgeResults)
	return nil
}

// windowEnd formats a window bound like a cell.
func windowEnd(f float64) string {
	if f == float64(int64(f)) {
		return dataset.Format(int64(f))
	}
	return dataset.Format(f)
}
