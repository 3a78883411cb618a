// Package metrics exposes filter chain activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "logsieve"

// Reload results
const (
	ReloadSuccess = "success"
	ReloadFailure = "failure"
)

// Metrics holds the Prometheus collectors of logsieve. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	FilterDecisions *prometheus.CounterVec
	ChainFilters    *prometheus.GaugeVec
	ChainEvaluation *prometheus.HistogramVec
	ChainReloads    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	filterDecisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_decisions_total",
			Help:      "Chain decisions per appender by deciding response (neutral means no filter decided)",
		},
		[]string{"appender", "response"},
	)

	chainFilters := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_filters",
			Help:      "Number of filters in the active chain of an appender",
		},
		[]string{"appender"},
	)

	chainEvaluation := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chain_evaluation_seconds",
			Help:      "Time taken to evaluate one entry against an appender chain",
			Buckets:   []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"appender"},
	)

	chainReloads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_reloads_total",
			Help:      "Chain document reloads by result",
		},
		[]string{"result"},
	)

	for _, c := range []prometheus.Collector{filterDecisions, chainFilters, chainEvaluation, chainReloads} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return &Metrics{
		FilterDecisions: filterDecisions,
		ChainFilters:    chainFilters,
		ChainEvaluation: chainEvaluation,
		ChainReloads:    chainReloads,
	}, nil
}

// RecordDecision records the outcome of one chain evaluation
func (m *Metrics) RecordDecision(appender, response string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FilterDecisions.WithLabelValues(appender, response).Inc()
	m.ChainEvaluation.WithLabelValues(appender).Observe(elapsed.Seconds())
}

func (m *Metrics) SetChainFilters(appender string, n int) {
	if m == nil {
		return
	}
	m.ChainFilters.WithLabelValues(appender).Set(float64(n))
}

func (m *Metrics) RecordReload(result string) {
	if m == nil {
		return
	}
	m.ChainReloads.WithLabelValues(result).Inc()
}
