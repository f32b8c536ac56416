package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/internal/config"
	"github.com/signalsfoundry/rocketcfg/internal/designs"
	"github.com/signalsfoundry/rocketcfg/internal/logging"
	"github.com/signalsfoundry/rocketcfg/internal/observability"
	"github.com/signalsfoundry/rocketcfg/kb"
)

// app carries the state of one CLI invocation.
type app struct {
	v   *viper.Viper
	cfg config.Config
	log logging.Logger

	metrics *observability.EngineCollector
	catalog *kb.MotorCatalog
	// fileMotors are the designations the motors file added to catalog.
	fileMotors []string

	configFile string
	configID   string

	command         string
	started         time.Time
	span            trace.Span
	shutdownTracing func(context.Context) error
}

func newApp() *app {
	return &app{v: viper.New(), log: logging.Noop()}
}

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"design":                  "design",
	"output":                  "output",
	"reference_type":          "reference-type",
	"custom_reference_length": "reference-length",
	"name_template":           "name-template",
	"motors_file":             "motors",
	"metrics":                 "metrics",
	"log.level":               "log-level",
	"log.format":              "log-format",
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rocketcfg",
		Short: "Inspect rocket flight configurations",
		Long: `rocketcfg builds a rocket design, evaluates its flight configurations
and reports active stages, motors, instance placement, bounds and
reference dimensions.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.before,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configFile, "config", "", "config file (default .rocketcfg.toml)")
	f.StringVar(&a.configID, "config-id", "", "flight configuration to inspect (default: the selected one)")
	f.StringP("design", "d", "", "built-in design: "+fmt.Sprint(designs.Names()))
	f.StringP("output", "o", "", "output format: text, json or toml")
	f.String("reference-type", "", "reference length rule: nosecone, maximum or custom")
	f.Float64("reference-length", 0, "custom reference length in metres")
	f.String("name-template", "", "name template applied to every configuration")
	f.String("motors", "", "JSON or TOML file with extra catalog motors")
	f.Bool("metrics", false, "dump Prometheus metrics to stderr on exit")
	f.String("log-level", "", "log level: debug, info, warn or error")
	f.String("log-format", "", "log format: text or json")
	for key, name := range flagKeys {
		_ = a.v.BindPFlag(key, f.Lookup(name))
	}

	root.AddCommand(
		a.designsCmd(),
		a.describeCmd(),
		a.configsCmd(),
		a.instancesCmd(),
		a.motorsCmd(),
		a.planCmd(),
		a.serveCmd(),
	)
	return root
}

// execute runs one invocation and always releases telemetry afterwards.
func (a *app) execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.finish(ctx, stderr, err)
	return err
}

func (a *app) readConfigFile() error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.configFile, err)
		}
		return nil
	}

	a.v.SetConfigName(".rocketcfg")
	a.v.SetConfigType("toml")
	a.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
	}
	// No config file is fine; defaults apply.
	var notFound viper.ConfigFileNotFoundError
	if err := a.v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func (a *app) before(cmd *cobra.Command, _ []string) error {
	a.command = cmd.Name()
	a.started = time.Now()

	if err := a.readConfigFile(); err != nil {
		return err
	}
	config.BindEnv(a.v)
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lc := cfg.Logging()
	lc.Output = cmd.ErrOrStderr()
	ctx, log := logging.WithRunLogger(cmd.Context(), logging.New(lc))
	ctx = logging.ContextWithLogger(ctx, log)
	a.log = log

	tc := cfg.TracingSettings()
	tc.Output = cmd.ErrOrStderr()
	shutdown, err := observability.InitTracing(ctx, tc, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTracing = shutdown

	a.metrics, err = observability.NewEngineCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	a.catalog = designs.DefaultCatalog()
	a.fileMotors = loadMotors(ctx, log, a.catalog, cfg.MotorsFile)

	ctx, a.span = observability.StartSpan(ctx, "rocketcfg."+a.command,
		attribute.String("design", cfg.Design))
	cmd.SetContext(ctx)

	log.Debug(ctx, "command starting",
		logging.String("command", a.command),
		logging.String("design", cfg.Design),
		logging.String("output", cfg.Output),
	)
	return nil
}

func (a *app) finish(ctx context.Context, stderr io.Writer, err error) {
	observability.EndSpan(a.span, err)
	if a.command != "" {
		a.metrics.ObserveCommand(a.command, time.Since(a.started))
	}
	if a.cfg.Metrics && a.metrics != nil {
		if werr := a.metrics.WriteText(stderr); werr != nil {
			a.log.Warn(ctx, "metrics dump failed", logging.Err(werr))
		}
	}
	observability.ShutdownWithTimeout(context.WithoutCancel(ctx), a.shutdownTracing, a.log)
}

// buildRocket builds a design with the invocation's logger, metrics and
// reference settings applied.
func (a *app) buildRocket(ctx context.Context, design string) (r *core.Rocket, err error) {
	_, span := observability.StartSpan(ctx, "rocketcfg.build", attribute.String("design", design))
	defer func() { observability.EndSpan(span, err) }()

	r, err = designs.Build(design, a.catalog,
		core.WithLogger(a.log),
		core.WithMetrics(a.metrics),
		core.WithReferenceType(a.cfg.RocketReferenceType()),
	)
	if err != nil {
		return nil, err
	}
	if a.cfg.CustomReferenceLength > 0 {
		if err := r.SetCustomReferenceLength(a.cfg.CustomReferenceLength); err != nil {
			return nil, err
		}
	}
	if a.cfg.NameTemplate != "" {
		for _, id := range r.IDs() {
			fc, _ := r.FlightConfiguration(id)
			fc.SetName(a.cfg.NameTemplate)
		}
	}

	a.log.Debug(ctx, "built design",
		logging.String("design", design),
		logging.Int("stages", r.StageCount()),
		logging.Int("configurations", r.ConfigurationCount()),
	)
	return r, nil
}

// configuration resolves --config-id against r, defaulting to the selected
// configuration.
func (a *app) configuration(r *core.Rocket) (*core.FlightConfiguration, error) {
	if a.configID == "" {
		return r.SelectedConfiguration(), nil
	}
	fc, ok := r.FlightConfiguration(core.FlightConfigurationID(a.configID))
	if !ok {
		return nil, fmt.Errorf("%w: unknown flight configuration %q", core.ErrInvalidArgument, a.configID)
	}
	return fc, nil
}
