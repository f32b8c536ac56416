// Package config loads rocketcfg runtime settings from .rocketcfg.toml,
// ROCKETCFG_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/internal/logging"
	"github.com/signalsfoundry/rocketcfg/internal/observability"
)

// EnvPrefix is the prefix of environment overrides; nested keys use "_"
// (ROCKETCFG_LOG_LEVEL for log.level).
const EnvPrefix = "ROCKETCFG"

var ErrInvalidConfig = errors.New("invalid config")

// LogConfig holds logger settings.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Config holds all runtime configuration for one CLI invocation.
type Config struct {
	Design                string        `mapstructure:"design"`
	Output                string        `mapstructure:"output"`
	ReferenceType         string        `mapstructure:"reference_type"`
	CustomReferenceLength float64       `mapstructure:"custom_reference_length"`
	NameTemplate          string        `mapstructure:"name_template"`
	MotorsFile            string        `mapstructure:"motors_file"`
	Metrics               bool          `mapstructure:"metrics"`
	MetricsAddr           string        `mapstructure:"metrics_addr"`
	Log                   LogConfig     `mapstructure:"log"`
	Tracing               TracingConfig `mapstructure:"tracing"`
}

// SetDefaults installs the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("design", "alpha-iii")
	v.SetDefault("output", "text")
	v.SetDefault("reference_type", core.ReferenceNoseCone.String())
	v.SetDefault("custom_reference_length", 0.0)
	v.SetDefault("name_template", "")
	v.SetDefault("motors_file", "")
	v.SetDefault("metrics", false)
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.add_source", false)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "rocketcfg")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// BindEnv makes every key overridable through ROCKETCFG_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load applies defaults to v and unmarshals it. A nil v uses the global
// viper instance.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and ranged settings.
func (c Config) Validate() error {
	switch c.Output {
	case "text", "json", "toml":
	default:
		return fmt.Errorf("%w: output %q (want text, json or toml)", ErrInvalidConfig, c.Output)
	}
	if _, err := core.ParseReferenceType(c.ReferenceType); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.CustomReferenceLength < 0 {
		return fmt.Errorf("%w: custom_reference_length %g", ErrInvalidConfig, c.CustomReferenceLength)
	}
	if _, err := observability.ParseExporter(c.Tracing.Exporter); err != nil {
		return fmt.Errorf("%w: tracing.exporter: %v", ErrInvalidConfig, err)
	}
	if r := c.Tracing.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("%w: tracing.sample_ratio %g", ErrInvalidConfig, r)
	}
	return nil
}

// RocketReferenceType returns the parsed reference type.
func (c Config) RocketReferenceType() core.ReferenceType {
	rt, _ := core.ParseReferenceType(c.ReferenceType)
	return rt
}

// Logging converts the log section for logging.New.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:     c.Log.Level,
		Format:    c.Log.Format,
		AddSource: c.Log.AddSource,
	}
}

// TracingSettings converts the tracing section for observability.InitTracing.
func (c Config) TracingSettings() observability.TracingConfig {
	return observability.TracingConfig{
		Enabled:     c.Tracing.Enabled,
		ServiceName: c.Tracing.ServiceName,
		Exporter:    c.Tracing.Exporter,
		Endpoint:    c.Tracing.Endpoint,
		SampleRatio: c.Tracing.SampleRatio,
	}
}
