// Package promreactive exposes a reactive system's runtime counters to
// Prometheus.
package promreactive

import (
	"github.com/delaneyj/proxyparty/reactivity"
	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "proxyparty").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactivity").
	Subsystem string

	// ConstLabels are added to every metric, next to the "system" label.
	ConstLabels prometheus.Labels
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "proxyparty",
		Subsystem: "reactivity",
	}
}

// Collector reads the system's counters at scrape time. It is safe to scrape
// from a goroutine other than the one driving the system.
type Collector struct {
	effectsCreated prometheus.CounterFunc
	effectRuns     prometheus.CounterFunc
	schedulerCalls prometheus.CounterFunc
	links          prometheus.CounterFunc
	triggers       prometheus.CounterFunc
	proxies        prometheus.CounterFunc
	targets        prometheus.GaugeFunc
}

func NewCollector(rs *reactivity.ReactiveSystem, opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	labels := prometheus.Labels{"system": rs.ID()}
	for k, v := range config.ConstLabels {
		labels[k] = v
	}

	counter := func(name, help string, read func(reactivity.Stats) uint64) prometheus.CounterFunc {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 {
			return float64(read(rs.Stats()))
		})
	}

	return &Collector{
		effectsCreated: counter("effects_created_total", "Total number of effects created",
			func(s reactivity.Stats) uint64 { return s.EffectsCreated }),
		effectRuns: counter("effect_runs_total", "Total number of effect runs",
			func(s reactivity.Stats) uint64 { return s.EffectRuns }),
		schedulerCalls: counter("scheduler_calls_total", "Total number of scheduler invocations in place of a run",
			func(s reactivity.Stats) uint64 { return s.SchedulerCalls }),
		links: counter("links_total", "Total number of effect to dependency subscriptions made",
			func(s reactivity.Stats) uint64 { return s.Links }),
		triggers: counter("triggers_total", "Total number of dependency set notifications",
			func(s reactivity.Stats) uint64 { return s.Triggers }),
		proxies: counter("proxies_created_total", "Total number of proxies created",
			func(s reactivity.Stats) uint64 { return s.Proxies }),
		targets: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_targets",
			Help:        "Number of tracked targets not yet collected",
			ConstLabels: labels,
		}, func() float64 {
			return float64(rs.Stats().Targets)
		}),
	}
}

func (c *Collector) metrics() []prometheus.Collector {
	return []prometheus.Collector{
		c.effectsCreated,
		c.effectRuns,
		c.schedulerCalls,
		c.links,
		c.triggers,
		c.proxies,
		c.targets,
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics() {
		m.Describe(ch)
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics() {
		m.Collect(ch)
	}
}

// Register creates a collector for rs and registers it with reg, or with
// prometheus.DefaultRegisterer when reg is nil.
func Register(reg prometheus.Registerer, rs *reactivity.ReactiveSystem, opts ...Option) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := NewCollector(rs, opts...)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
