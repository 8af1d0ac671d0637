package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dashkit/internal/cli/output"
	"github.com/leapstack-labs/dashkit/internal/processor"
)

// processReport is the JSON form of a processing run.
type processReport struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	Before    string `json:"before"`
	After     string `json:"after"`
	Removed   int    `json:"removed"`
	Saved     bool   `json:"saved"`
	SaveError string `json:"save_error,omitempty"`
}

// NewProcessCommand creates the process command.
func NewProcessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Remove duplicate rows from the raw dataset",
		Long: `Load the raw dataset, drop rows that exactly duplicate an earlier row and
write the result to the processed dataset path.

The first occurrence of every row is kept and row order is preserved, so
running the command twice yields identical output.`,
		Example: `  # Process the configured files
  dashkit process

  # Process another file
  dashkit process --raw exports/patients.csv --processed data/processed_dataset.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd)
		},
	}
}

func runProcess(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cc.Renderer
	p := processor.New(cc.Reader, cc.Logger)
	res, err := p.Process(cmd.Context(), cc.Cfg.Data.Raw, cc.Cfg.Data.Processed)
	if err != nil {
		var missing *processor.MissingInputError
		if errors.As(err, &missing) {
			return fmt.Errorf("%w\nHint: Check the path or use --raw to point at the raw dataset", err)
		}
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		report := processReport{
			Input:   cc.Cfg.Data.Raw,
			Output:  res.OutputPath,
			Before:  res.Before.String(),
			After:   res.After.String(),
			Removed: res.Removed(),
			Saved:   res.SaveErr == nil,
		}
		if res.SaveErr != nil {
			report.SaveError = res.SaveErr.Error()
		}
		return r.JSON(report)
	}

	r.Header(1, "Processing")
	r.Println(output.FormatKeyValue("Original shape", res.Before.String()))
	r.Println(output.FormatKeyValue("Shape after removing duplicates", res.After.String()))
	r.Println(output.FormatKeyValue("Duplicates removed", fmt.Sprint(res.Removed())))
	r.Println("")

	if res.SaveErr != nil {
		r.StatusLine(res.OutputPath, "failed", "")
		r.Warning(fmt.Sprintf("Failed to save processed dataset: %v", res.SaveErr))
		return nil
	}
	r.StatusLine(res.OutputPath, "success", "")
	r.Success("Processed dataset saved successfully.")
	return nil
}
