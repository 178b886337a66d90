package observability

import (
	"context"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// UnknownAction replaces action types outside the known set in labels.
const UnknownAction = "unknown"

// Metrics exposes store activity as Prometheus collectors.
type Metrics struct {
	dispatches   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	listeners    *prometheus.GaugeVec
	sliceChanges *prometheus.CounterVec
	panics       *prometheus.CounterVec

	storeLabel bool
	known      map[string]bool
}

// MetricsOption configures Metrics.
type MetricsOption func(*Metrics)

// WithStoreLabel partitions every series by store name. Leave it off when
// store names come from untrusted input: each name is a new series.
func WithStoreLabel() MetricsOption {
	return func(m *Metrics) {
		m.storeLabel = true
	}
}

// WithKnownActions restricts the action label to types; any other type is
// reported as UnknownAction.
func WithKnownActions(types []string) MetricsOption {
	return func(m *Metrics) {
		m.known = make(map[string]bool, len(types))
		for _, t := range types {
			m.known[t] = true
		}
	}
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg skips registration, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer, opts ...MetricsOption) (*Metrics, error) {
	m := &Metrics{}
	for _, opt := range opts {
		opt(m)
	}

	m.dispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_dispatch_total",
			Help: "Total number of dispatched actions, by outcome",
		},
		m.labelNames("action", "result"),
	)
	m.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strata_dispatch_duration_seconds",
			Help:    "Time spent reducing and committing an action",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		m.labelNames("action"),
	)
	m.listeners = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strata_listeners",
			Help: "Listeners notified by the last dispatch",
		},
		m.labelNames(),
	)
	m.sliceChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_slice_changes_total",
			Help: "Number of commits that changed a slice",
		},
		m.labelNames("slice"),
	)
	m.panics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_listener_panics_total",
			Help: "Listener panics recovered by isolated stores",
		},
		m.labelNames(),
	)

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.dispatches, m.duration, m.listeners, m.sliceChanges, m.panics}
}

func (m *Metrics) labelNames(names ...string) []string {
	if !m.storeLabel {
		return names
	}
	return append([]string{"store"}, names...)
}

func (m *Metrics) labelValues(store string, values ...string) []string {
	if !m.storeLabel {
		return values
	}
	return append([]string{store}, values...)
}

func (m *Metrics) action(actionType string) string {
	if m.known != nil && !m.known[actionType] {
		return UnknownAction
	}
	return actionType
}

// Forget deletes every series of store. It is a no-op without WithStoreLabel.
func (m *Metrics) Forget(store string) int {
	if !m.storeLabel {
		return 0
	}
	match := prometheus.Labels{"store": store}
	return m.dispatches.DeletePartialMatch(match) +
		m.duration.DeletePartialMatch(match) +
		m.listeners.DeletePartialMatch(match) +
		m.sliceChanges.DeletePartialMatch(match) +
		m.panics.DeletePartialMatch(match)
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommit: func(ctx context.Context, e *domain.CommitEvent) {
			action := m.action(e.ActionType)
			m.dispatches.WithLabelValues(m.labelValues(e.Store, action, "ok")...).Inc()
			m.duration.WithLabelValues(m.labelValues(e.Store, action)...).Observe(e.Duration.Seconds())
			for _, slice := range e.Diff.Slices() {
				m.sliceChanges.WithLabelValues(m.labelValues(e.Store, slice)...).Inc()
			}
		},
		OnReducerError: func(ctx context.Context, e *domain.ErrorEvent) {
			action := m.action(e.ActionType)
			m.dispatches.WithLabelValues(m.labelValues(e.Store, action, "error")...).Inc()
			m.duration.WithLabelValues(m.labelValues(e.Store, action)...).Observe(e.Duration.Seconds())
		},
		OnNotify: func(ctx context.Context, e *domain.NotifyEvent) {
			m.listeners.WithLabelValues(m.labelValues(e.Store)...).Set(float64(e.Listeners))
		},
		OnListenerPanic: func(ctx context.Context, e *domain.PanicEvent) {
			m.panics.WithLabelValues(m.labelValues(e.Store)...).Inc()
		},
	}
}
