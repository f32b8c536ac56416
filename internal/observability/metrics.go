package observability

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// EngineCollector bundles Prometheus metrics for the configuration engine and
// the CLI commands driving it. It satisfies core.MetricsRecorder.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	Enumerations        prometheus.Counter
	EnumeratedInstances prometheus.Histogram
	CacheLookups        *prometheus.CounterVec
	Configurations      prometheus.Gauge
	CommandDurations    *prometheus.HistogramVec
}

// NewEngineCollector registers engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	enumerations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rocketcfg_enumerations_total",
		Help: "Total number of instance enumerations over a component tree.",
	}), "rocketcfg_enumerations_total")
	if err != nil {
		return nil, err
	}

	instances, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rocketcfg_enumerated_instances",
		Help:    "Number of instance contexts produced per enumeration.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}), "rocketcfg_enumerated_instances")
	if err != nil {
		return nil, err
	}

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rocketcfg_cache_lookups_total",
		Help: "Cached quantity reads, labeled by quantity and hit or miss.",
	}, []string{"quantity", "result"})
	lookups, err = registerCounterVec(reg, lookups, "rocketcfg_cache_lookups_total")
	if err != nil {
		return nil, err
	}

	configs, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rocketcfg_configurations",
		Help: "Current number of registered flight configurations.",
	}), "rocketcfg_configurations")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rocketcfg_command_duration_seconds",
		Help:    "CLI command latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"command"})
	durations, err = registerHistogramVec(reg, durations, "rocketcfg_command_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:            gatherer,
		Enumerations:        enumerations,
		EnumeratedInstances: instances,
		CacheLookups:        lookups,
		Configurations:      configs,
		CommandDurations:    durations,
	}, nil
}

// Gatherer returns the gatherer backing Handler.
func (c *EngineCollector) Gatherer() prometheus.Gatherer {
	if c == nil || c.gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Gatherer(), promhttp.HandlerOpts{})
}

// WriteText dumps every gathered metric family in the Prometheus text
// exposition format.
func (c *EngineCollector) WriteText(w io.Writer) error {
	families, err := c.Gatherer().Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func (c *EngineCollector) ObserveEnumeration(instances int) {
	if c == nil {
		return
	}
	c.Enumerations.Inc()
	c.EnumeratedInstances.Observe(float64(instances))
}

func (c *EngineCollector) ObserveCacheLookup(quantity string, hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(quantity, result).Inc()
}

func (c *EngineCollector) SetConfigurationCount(n int) {
	if c == nil {
		return
	}
	c.Configurations.Set(float64(n))
}

// ObserveCommand records how long a CLI command took.
func (c *EngineCollector) ObserveCommand(command string, d time.Duration) {
	if c == nil {
		return
	}
	c.CommandDurations.WithLabelValues(command).Observe(d.Seconds())
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
