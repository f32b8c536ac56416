package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/rocketcfg/core"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Design", cfg.Design, "alpha-iii"},
		{"Output", cfg.Output, "text"},
		{"ReferenceType", cfg.ReferenceType, "nosecone"},
		{"Metrics", cfg.Metrics, false},
		{"MetricsAddr", cfg.MetricsAddr, ":9090"},
		{"Log.Level", cfg.Log.Level, "warn"},
		{"Log.Format", cfg.Log.Format, "text"},
		{"Tracing.Enabled", cfg.Tracing.Enabled, false},
		{"Tracing.Exporter", cfg.Tracing.Exporter, "stdout"},
		{"Tracing.ServiceName", cfg.Tracing.ServiceName, "rocketcfg"},
		{"Tracing.SampleRatio", cfg.Tracing.SampleRatio, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
	if cfg.RocketReferenceType() != core.ReferenceNoseCone {
		t.Errorf("RocketReferenceType = %v, want nosecone", cfg.RocketReferenceType())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{"design", "ROCKETCFG_DESIGN", "beta", func(c Config) any { return c.Design }, "beta"},
		{"output", "ROCKETCFG_OUTPUT", "json", func(c Config) any { return c.Output }, "json"},
		{"log.level", "ROCKETCFG_LOG_LEVEL", "debug", func(c Config) any { return c.Log.Level }, "debug"},
		{"log.format", "ROCKETCFG_LOG_FORMAT", "json", func(c Config) any { return c.Log.Format }, "json"},
		{"tracing.endpoint", "ROCKETCFG_TRACING_ENDPOINT", "collector:4317", func(c Config) any { return c.Tracing.Endpoint }, "collector:4317"},
		{"tracing.enabled", "ROCKETCFG_TRACING_ENABLED", "true", func(c Config) any { return c.Tracing.Enabled }, true},
		{"tracing.sample_ratio", "ROCKETCFG_TRACING_SAMPLE_RATIO", "0.5", func(c Config) any { return c.Tracing.SampleRatio }, 0.5},
		{"custom_reference_length", "ROCKETCFG_CUSTOM_REFERENCE_LENGTH", "0.05", func(c Config) any { return c.CustomReferenceLength }, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)
			v := viper.New()
			BindEnv(v)

			cfg, err := Load(v)
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rocketcfg.toml")
	body := `
design = "falcon9-heavy"
reference_type = "maximum"

[log]
level = "info"
format = "json"

[tracing]
enabled = true
exporter = "otlp"
endpoint = "collector:4317"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Design != "falcon9-heavy" || cfg.RocketReferenceType() != core.ReferenceMaximum {
		t.Fatalf("cfg = %+v", cfg)
	}
	if lc := cfg.Logging(); lc.Level != "info" || lc.Format != "json" {
		t.Fatalf("Logging() = %+v", lc)
	}
	tc := cfg.TracingSettings()
	if !tc.Enabled || tc.Exporter != "otlp" || tc.Endpoint != "collector:4317" || tc.ServiceName != "rocketcfg" {
		t.Fatalf("TracingSettings() = %+v", tc)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]any{
		"output":                  "yaml",
		"reference_type":          "widest",
		"custom_reference_length": -1.0,
		"tracing.sample_ratio":    2.0,
		"tracing.exporter":        "zipkin",
	}
	for key, val := range cases {
		v := viper.New()
		v.Set(key, val)
		if _, err := Load(v); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s=%v: error = %v, want ErrInvalidConfig", key, val, err)
		}
	}
}
