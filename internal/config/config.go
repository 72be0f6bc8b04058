// Package config loads geodsolve settings from flags, GEODSOLVE_*
// environment variables and an optional config file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/geodkit/geodesic"
)

// EnvPrefix is prepended to every environment variable, e.g.
// GEODSOLVE_OUTPUT_PRECISION.
const EnvPrefix = "GEODSOLVE"

// Modes.
const (
	ModeDirect  = "direct"
	ModeInverse = "inverse"
	ModeLine    = "line"
)

// Config is the resolved geodsolve configuration.
type Config struct {
	Mode      string          `mapstructure:"mode"      validate:"oneof=direct inverse line"`
	Ellipsoid EllipsoidConfig `mapstructure:"ellipsoid"`
	Line      LineConfig      `mapstructure:"line"`
	Output    OutputConfig    `mapstructure:"output"`
	Workers   int             `mapstructure:"workers"   validate:"min=1,max=256"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// EllipsoidConfig names the earth model. Build turns it into an Ellipsoid.
type EllipsoidConfig struct {
	Name string `mapstructure:"name" validate:"oneof=wgs84 international sphere custom"`
	// Radius is the equatorial radius in meters; required for custom, and
	// optional for sphere.
	Radius float64 `mapstructure:"radius" validate:"required_if=Name custom,gte=0"`
	// Flattening f, or the inverse flattening when its magnitude is at
	// least one.
	Flattening float64 `mapstructure:"flattening"`
}

// LineConfig is the fixed starting point and azimuth of line mode. The
// values are decoded later so that DMS notation is accepted.
type LineConfig struct {
	Lat1 string `mapstructure:"lat1"`
	Lon1 string `mapstructure:"lon1"`
	Azi1 string `mapstructure:"azi1"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Precision int  `mapstructure:"precision"` // clamped to [0,9]
	DMS       bool `mapstructure:"dms"`
	Full      bool `mapstructure:"full"`
}

// CacheConfig sizes the result cache.
type CacheConfig struct {
	SizeMB int `mapstructure:"size_mb" validate:"min=0,max=4096"` // 0 disables
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level      string `mapstructure:"level"       validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format"      validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"    validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age"     validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

// MetricsConfig selects where metrics are written on exit.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

// defaults lists every key, so that AutomaticEnv sees each of them when
// unmarshaling.
var defaults = map[string]any{
	"mode":                 ModeDirect,
	"ellipsoid.name":       "wgs84",
	"ellipsoid.radius":     0.0,
	"ellipsoid.flattening": 0.0,
	"line.lat1":            "",
	"line.lon1":            "",
	"line.azi1":            "",
	"output.precision":     3,
	"output.dms":           false,
	"output.full":          false,
	"workers":              4,
	"cache.size_mb":        0,
	"log.level":            "warn",
	"log.format":           "text",
	"log.file":             "",
	"log.max_size":         10,
	"log.max_backups":      3,
	"log.max_age":          28,
	"log.compress":         false,
	"metrics.file":         "",
}

// flagKeys maps config keys to the long flag names that override them.
var flagKeys = map[string]string{
	"output.precision": "precision",
	"output.dms":       "dms",
	"output.full":      "full",
	"workers":          "workers",
	"cache.size_mb":    "cache-mb",
	"log.level":        "log-level",
	"log.format":       "log-format",
	"log.file":         "log-file",
	"metrics.file":     "metrics-file",
}

// Flags returns the geodsolve command line flag set.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.BoolP("inverse", "i", false, "solve the inverse problem: read \"lat1 lon1 lat2 lon2\"")
	fs.StringP("line", "l", "", "fix a geodesic \"lat1 lon1 azi1\" and read s12 values")
	fs.BoolP("international", "n", false, "use the International ellipsoid (a=6378388, 1/f=297)")
	fs.StringP("ellipsoid", "e", "", "use the ellipsoid \"a f\" (f > 1 is taken as 1/f)")
	fs.BoolP("dms", "d", false, "print angles as degrees, minutes, seconds")
	fs.BoolP("full", "f", false, "print the complete geodesic on each line")
	fs.IntP("precision", "p", 3, "output precision relative to 1m, 0..9")
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.Int("workers", 4, "records solved concurrently")
	fs.Int("cache-mb", 0, "memoize results in a cache of this size (MB)")
	fs.String("log-level", "warn", "debug, info, warn or error")
	fs.String("log-format", "text", "json or text")
	fs.String("log-file", "", "rotating log file instead of stderr")
	fs.String("metrics-file", "", "write Prometheus metrics to this file on exit")
	return fs
}

// Load resolves the configuration for a parsed flag set.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}
	for key, name := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}
	if err := applyShortcuts(fs, &c); err != nil {
		return nil, err
	}
	c.Output.Precision = min(9, max(0, c.Output.Precision))
	c.Mode = strings.ToLower(c.Mode)
	c.Ellipsoid.Name = strings.ToLower(c.Ellipsoid.Name)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)

	if err := validator.New().Struct(&c); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if c.Mode == ModeLine && (c.Line.Lat1 == "" || c.Line.Lon1 == "" || c.Line.Azi1 == "") {
		return nil, errors.New("config validation failed: line mode needs line.lat1, line.lon1 and line.azi1")
	}
	return &c, nil
}

// applyShortcuts folds the single-letter mode and ellipsoid flags into c.
func applyShortcuts(fs *pflag.FlagSet, c *Config) error {
	inverse := fs.Changed("inverse")
	line := fs.Changed("line")
	if inverse && line {
		return errors.New("flags -i and -l are mutually exclusive")
	}
	if inverse {
		c.Mode = ModeInverse
	}
	if line {
		s, _ := fs.GetString("line")
		fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
		if len(fields) != 3 {
			return fmt.Errorf("-l wants \"lat1 lon1 azi1\", got %q", s)
		}
		c.Mode = ModeLine
		c.Line = LineConfig{Lat1: fields[0], Lon1: fields[1], Azi1: fields[2]}
	}

	intl := fs.Changed("international")
	custom := fs.Changed("ellipsoid")
	if intl && custom {
		return errors.New("flags -n and -e are mutually exclusive")
	}
	if intl {
		c.Ellipsoid = EllipsoidConfig{Name: "international"}
	}
	if custom {
		s, _ := fs.GetString("ellipsoid")
		fields := strings.Fields(s)
		if len(fields) != 2 {
			return fmt.Errorf("-e wants \"a f\", got %q", s)
		}
		a, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("-e: bad equatorial radius %q", fields[0])
		}
		f, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("-e: bad flattening %q", fields[1])
		}
		c.Ellipsoid = EllipsoidConfig{Name: "custom", Radius: a, Flattening: f}
	}
	return nil
}

// Build returns the ellipsoid described by c.
func (c EllipsoidConfig) Build() (*geodesic.Ellipsoid, error) {
	switch c.Name {
	case "", "wgs84":
		return geodesic.WGS84, nil
	case "international":
		return geodesic.International, nil
	case "sphere":
		if c.Radius == 0 {
			return geodesic.Globe, nil
		}
		return geodesic.NewSpherical(c.Radius)
	case "custom":
		return geodesic.NewEllipsoidInverseFlattening(c.Radius, c.Flattening)
	default:
		return nil, fmt.Errorf("unknown ellipsoid %q", c.Name)
	}
}
