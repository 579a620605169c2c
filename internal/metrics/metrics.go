// Package metrics exposes run outcomes as Prometheus metrics.
//
// handlesync is a batch job, so nothing is served: the registry is written
// to a node-exporter textfile at the end of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

// Metrics holds the run metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Records by reconciliation status
	Records *prometheus.CounterVec

	// Lookup batches by pass and outcome ("ok", "failed")
	LookupBatches *prometheus.CounterVec

	// Claims extracted from the roster
	Claims prometheus.Counter

	RunDuration prometheus.Gauge
	LastRun     prometheus.Gauge
}

// New creates the metrics and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "handlesync_records_total",
			Help: "Reconciled records by status",
		}, []string{"status"}),

		LookupBatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "handlesync_lookup_batches_total",
			Help: "Directory lookup batches by pass and outcome",
		}, []string{"pass", "outcome"}),

		Claims: factory.NewCounter(prometheus.CounterOpts{
			Name: "handlesync_claims_total",
			Help: "Identity claims extracted from the roster",
		}),

		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "handlesync_run_duration_seconds",
			Help: "Duration of the last reconciliation",
		}),

		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "handlesync_last_run_timestamp_seconds",
			Help: "Unix time the last run completed",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveClaims records the number of extracted claims.
func (m *Metrics) ObserveClaims(n int) {
	if m != nil {
		m.Claims.Add(float64(n))
	}
}

// ObserveResult records a finished reconciliation.
func (m *Metrics) ObserveResult(res *reconcile.Result) {
	if m == nil || res == nil {
		return
	}

	// Zero counts are exported too.
	for _, s := range identity.Statuses {
		m.Records.WithLabelValues(string(s)).Add(float64(res.Count(s)))
	}

	stats := res.Metadata.Stats
	for _, pass := range []string{reconcile.PassIDs, reconcile.PassHandles} {
		failed := stats.FailedBatches[pass]
		m.LookupBatches.WithLabelValues(pass, "ok").Add(float64(stats.Batches[pass] - failed))
		m.LookupBatches.WithLabelValues(pass, "failed").Add(float64(failed))
	}

	m.RunDuration.Set(res.Metadata.Duration.Seconds())
	end := res.Metadata.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	m.LastRun.Set(float64(end.Unix()))
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
