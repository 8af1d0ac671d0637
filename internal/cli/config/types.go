// Package config loads dashkit configuration.
//
// Values are layered: built-in defaults, then dashkit.yaml, then DASHKIT_
// environment variables, then explicitly set command line flags. Relative
// data paths resolve against the directory holding the config file, or the
// working directory when there is none.
package config

import (
	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// Default configuration values.
const (
	DefaultConfigFile = "dashkit.yaml"
	DefaultRaw        = "data/dataset.csv"
	DefaultProcessed  = "data/processed_dataset.csv"
	DefaultSales      = "sales.csv"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultHost       = "localhost"
	DefaultPort       = 8501
)

// Config holds all CLI configuration options.
type Config struct {
	// File is the config file that was loaded, if any.
	File string `koanf:"-" yaml:"-"`

	Verbose bool   `koanf:"verbose" yaml:"verbose"`
	Output  string `koanf:"output" yaml:"output"`
	// Database is the DuckDB file used to read CSVs. Empty keeps it in memory.
	Database string `koanf:"database" yaml:"database"`

	Data   DataConfig   `koanf:"data" yaml:"data"`
	Health HealthConfig `koanf:"health" yaml:"health"`
	Sales  SalesConfig  `koanf:"sales" yaml:"sales"`
	UI     UIConfig     `koanf:"ui" yaml:"ui"`
}

// DataConfig locates the data files.
type DataConfig struct {
	Raw       string `koanf:"raw" yaml:"raw"`
	Processed string `koanf:"processed" yaml:"processed"`
	Sales     string `koanf:"sales" yaml:"sales"`
}

// HealthConfig configures the health dashboard.
type HealthConfig struct {
	AgeColumn string         `koanf:"age_column" yaml:"age_column"`
	AgeWindow dataset.Window `koanf:"age_window" yaml:"age_window"`
}

// SalesConfig configures the sales dashboard columns.
type SalesConfig struct {
	DateColumn    string         `koanf:"date_column" yaml:"date_column"`
	RegionColumn  string         `koanf:"region_column" yaml:"region_column"`
	ProductColumn string         `koanf:"product_column" yaml:"product_column"`
	UnitsColumn   string         `koanf:"units_column" yaml:"units_column"`
	RevenueColumn string         `koanf:"revenue_column" yaml:"revenue_column"`
	UnitsWindow   dataset.Window `koanf:"units_window" yaml:"units_window"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Host     string `koanf:"host" yaml:"host"`
	Port     int    `koanf:"port" yaml:"port"`
	AutoOpen bool   `koanf:"auto_open" yaml:"auto_open"`
	Watch    bool   `koanf:"watch" yaml:"watch"`
	// SessionSecret signs the selection cookie. Empty uses a per-process
	// secret.
	SessionSecret string `koanf:"session_secret" yaml:"session_secret,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	h := dashboard.DefaultHealthOptions()
	s := dashboard.DefaultSalesOptions()
	return &Config{
		Output: DefaultOutput,
		Data: DataConfig{
			Raw:       DefaultRaw,
			Processed: DefaultProcessed,
			Sales:     DefaultSales,
		},
		Health: HealthConfig{
			AgeColumn: h.AgeColumn,
			AgeWindow: h.DefaultWindow,
		},
		Sales: SalesConfig{
			DateColumn:    s.DateColumn,
			RegionColumn:  s.RegionColumn,
			ProductColumn: s.ProductColumn,
			UnitsColumn:   s.UnitsColumn,
			RevenueColumn: s.RevenueColumn,
			UnitsWindow:   s.DefaultWindow,
		},
		UI: UIConfig{
			Host:     DefaultHost,
			Port:     DefaultPort,
			AutoOpen: true,
			Watch:    true,
		},
	}
}

// HealthOptions converts the health section for the dashboard.
func (c *Config) HealthOptions() dashboard.HealthOptions {
	return dashboard.HealthOptions{
		AgeColumn:     c.Health.AgeColumn,
		DefaultWindow: c.Health.AgeWindow,
	}
}

// SalesOptions converts the sales section for the dashboard.
func (c *Config) SalesOptions() dashboard.SalesOptions {
	return dashboard.SalesOptions{
		DateColumn:    c.Sales.DateColumn,
		RegionColumn:  c.Sales.RegionColumn,
		ProductColumn: c.Sales.ProductColumn,
		UnitsColumn:   c.Sales.UnitsColumn,
		RevenueColumn: c.Sales.RevenueColumn,
		DefaultWindow: c.Sales.UnitsWindow,
	}
}
