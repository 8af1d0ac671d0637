package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dashkit/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the health dashboard in the terminal",
		Long: `Open the health dashboard as a full screen terminal UI.

Keys:
  /          edit the search term (enter or esc to finish)
  tab        switch between the full, search and age tables
  [ ]        move the lower age bound
  { }        move the upper age bound
  0          reset the age window
  r          reload the dataset
  q          quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			m := tui.NewHealthModel(cmd.Context(), cc.NewCache(), cc.Cfg.Data.Processed, cc.Cfg.HealthOptions(), cc.Logger)
			return tui.Run(cmd.Context(), m)
		},
	}
}
