package config

import (
	"errors"
	"fmt"
	"slices"
)

// OutputModes lists the accepted values of the output option.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(OutputModes, c.Output) {
		errs = append(errs, fmt.Errorf("invalid output %q: must be one of %v", c.Output, OutputModes))
	}
	if c.Data.Raw == "" || c.Data.Processed == "" || c.Data.Sales == "" {
		errs = append(errs, errors.New("data paths must not be empty"))
	}
	if c.Health.AgeColumn == "" {
		errs = append(errs, errors.New("health.age_column is required"))
	}
	if w := c.Health.AgeWindow; w.Lo > w.Hi {
		errs = append(errs, fmt.Errorf("health.age_window: %v is greater than %v", w.Lo, w.Hi))
	}
	if w := c.Sales.UnitsWindow; w.Lo > w.Hi {
		errs = append(errs, fmt.Errorf("sales.units_window: %v is greater than %v", w.Lo, w.Hi))
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port %d is out of range", c.UI.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
