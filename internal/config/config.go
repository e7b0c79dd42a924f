// Package config loads playpen settings from defaults, a YAML file,
// PLAYPEN_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"playpen/internal/catalog"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "playpen.yaml"

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "PLAYPEN_"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all playpen settings.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Catalog CatalogConfig `koanf:"catalog"`
	Pane    PaneConfig    `koanf:"pane"`
	Trace   TraceConfig   `koanf:"trace"`

	// File is the config file that was read, empty if none.
	File string `koanf:"-"`
}

// LogConfig controls the log file. The terminal belongs to the TUI, so logs
// never go to stderr.
type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// CatalogConfig selects where catalog tables come from.
type CatalogConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// MarginConfig is a four-sided pane margin in cells.
type MarginConfig struct {
	Top    int `koanf:"top"`
	Left   int `koanf:"left"`
	Bottom int `koanf:"bottom"`
	Right  int `koanf:"right"`
}

// PaneConfig sets the look of table panes.
type PaneConfig struct {
	Margin   MarginConfig `koanf:"margin"`
	MinWidth int          `koanf:"min_width"`
}

// TraceConfig enables OTLP export of drop spans when Endpoint is set.
type TraceConfig struct {
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

func defaults() map[string]any {
	return map[string]any{
		"log.level":          "info",
		"log.file":           "playpen.log",
		"catalog.driver":     catalog.DriverDemo,
		"catalog.dsn":        "",
		"pane.margin.top":    1,
		"pane.margin.left":   1,
		"pane.margin.bottom": 1,
		"pane.margin.right":  1,
		"pane.min_width":     16,
		"trace.endpoint":     "",
		"trace.service_name": "playpen",
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-file":       "log.file",
	"catalog-driver": "catalog.driver",
	"catalog-dsn":    "catalog.dsn",
	"trace-endpoint": "trace.endpoint",
}

// Load reads configuration. cfgFile may be empty, in which case DefaultFile
// is used if it exists. flags may be nil; only flags the user actually set
// override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: PLAYPEN_CATALOG_DSN -> catalog.dsn
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// envKey turns PLAYPEN_PANE_MIN_WIDTH into pane.min_width. Only the first
// underscore after the section name becomes a dot.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	if section == "pane" && strings.HasPrefix(rest, "margin_") {
		return "pane.margin." + strings.TrimPrefix(rest, "margin_")
	}
	return section + "." + rest
}

// Validate rejects settings the rest of playpen cannot use.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Catalog.Driver {
	case catalog.DriverDemo:
	case catalog.DriverSQLite, catalog.DriverPostgres:
		if c.Catalog.DSN == "" {
			errs = append(errs, fmt.Errorf("catalog.dsn is required for driver %q", c.Catalog.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown catalog.driver %q (want %s, %s or %s)",
			c.Catalog.Driver, catalog.DriverDemo, catalog.DriverSQLite, catalog.DriverPostgres))
	}
	m := c.Pane.Margin
	if m.Top < 0 || m.Left < 0 || m.Bottom < 0 || m.Right < 0 {
		errs = append(errs, fmt.Errorf("pane.margin must not be negative: %+v", m))
	}
	if c.Pane.MinWidth < 1 {
		errs = append(errs, fmt.Errorf("pane.min_width must be positive, got %d", c.Pane.MinWidth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	return l, nil
}
