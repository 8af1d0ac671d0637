package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable dashkit reads.
const EnvPrefix = "DASHKIT_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

var configNames = []string{"dashkit.yaml", "dashkit.yml"}

// flagKeys maps flag names to config keys. Flags not listed use their name
// with dashes replaced by underscores.
var flagKeys = map[string]string{
	"raw":        "data.raw",
	"processed":  "data.processed",
	"sales-file": "data.sales",
}

// envKey maps DASHKIT_UI__PORT to ui.port. A double underscore separates
// sections; DASHKIT_SESSION_SECRET is accepted as a shorthand.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "session_secret" {
		return "ui.session_secret"
	}
	return strings.ReplaceAll(key, "__", ".")
}

// configExistsIn returns the config file in dir, if any.
func configExistsIn(dir string) string {
	for _, name := range configNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a dashkit config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if p := configExistsIn(dir); p != "" {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, in-memory or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"verbose":              d.Verbose,
		"output":               d.Output,
		"database":             d.Database,
		"data.raw":             d.Data.Raw,
		"data.processed":       d.Data.Processed,
		"data.sales":           d.Data.Sales,
		"health.age_column":    d.Health.AgeColumn,
		"health.age_window":    []any{d.Health.AgeWindow.Lo, d.Health.AgeWindow.Hi},
		"sales.date_column":    d.Sales.DateColumn,
		"sales.region_column":  d.Sales.RegionColumn,
		"sales.product_column": d.Sales.ProductColumn,
		"sales.units_column":   d.Sales.UnitsColumn,
		"sales.revenue_column": d.Sales.RevenueColumn,
		"sales.units_window":   []any{d.Sales.UnitsWindow.Lo, d.Sales.UnitsWindow.Hi},
		"ui.host":              d.UI.Host,
		"ui.port":              d.UI.Port,
		"ui.auto_open":         d.UI.AutoOpen,
		"ui.watch":             d.UI.Watch,
		"ui.session_secret":    d.UI.SessionSecret,
	}
}

// Load loads configuration from defaults, the config file, environment
// variables and flags. Precedence (highest to lowest): flags > env vars >
// config file > defaults. cfgFile may be empty, in which case dashkit.yaml
// is searched for from the working directory upward.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		cfgFile = findConfigUpward(cwd)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				windowHook(),
				mapstructure.StringToTimeDurationHookFunc(),
			),
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths. Flag values are relative to the working directory,
	// everything else to the config file's directory.
	baseDir := cwd
	if cfgFile != "" {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		cfg.File = abs
		baseDir = filepath.Dir(abs)
	}
	fromFlag := func(name string) bool {
		return flags != nil && flags.Lookup(name) != nil && flags.Changed(name)
	}
	resolve := func(p *string, flag string) {
		if fromFlag(flag) {
			*p = resolvePathRelativeTo(*p, cwd)
			return
		}
		*p = resolvePathRelativeTo(*p, baseDir)
	}
	resolve(&cfg.Data.Raw, "raw")
	resolve(&cfg.Data.Processed, "processed")
	resolve(&cfg.Data.Sales, "sales-file")
	resolve(&cfg.Database, "database")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type (
	loggerKey struct{}
	configKey struct{}
)

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored by WithConfig, or the defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok && cfg != nil {
		return cfg
	}
	return Default()
}
