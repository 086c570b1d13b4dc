// Package metrics exposes Prometheus collectors for market fetches and pivot analyses.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeNoData  = "no_data"
	OutcomeInvalid = "invalid"
)

// Metrics groups the collectors of this service.
type Metrics struct {
	MarketFetches       *prometheus.CounterVec
	MarketFetchDuration *prometheus.HistogramVec
	Analyses            *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MarketFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pivot_market_fetches_total",
				Help: "Total number of market data range fetches",
			},
			[]string{"source", "outcome"}, // outcome: ok|empty|error
		),
		MarketFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pivot_market_fetch_duration_seconds",
				Help:    "Market data fetch latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"source"},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pivot_analyses_total",
				Help: "Total number of pivot analyses served",
			},
			[]string{"timeframe", "outcome"}, // outcome: ok|no_data|invalid|error
		),
	}
	reg.MustRegister(m.MarketFetches, m.MarketFetchDuration, m.Analyses)
	return m
}

// RecordAnalysis counts one analysis request. A nil receiver is a no-op.
func (m *Metrics) RecordAnalysis(timeframe, outcome string) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(timeframe, outcome).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
