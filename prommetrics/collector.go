// Package prommetrics exports kmsig metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/hupe1980/kmsig"
	"github.com/hupe1980/kmsig/kmeans"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kmsig"

// Collector implements kmsig.MetricsCollector with Prometheus metrics.
type Collector struct {
	stageLatency  *prometheus.HistogramVec
	roundLatency  *prometheus.HistogramVec
	rounds        *prometheus.CounterVec
	vectorsLoaded prometheus.Counter
	rmse          prometheus.Gauge
	clusters      prometheus.Gauge
	emptyClusters prometheus.Counter
	repairs       prometheus.Counter
	runs          *prometheus.CounterVec
}

var _ kmsig.MetricsCollector = (*Collector)(nil)

// NewCollector creates the metrics and registers them on reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_latency_seconds",
			Help:      "Latency of load, seed, save and run stages",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "status"}),
		roundLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_latency_seconds",
			Help:      "Latency of assign+update rounds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16),
		}, []string{"phase"}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Completed update rounds",
		}, []string{"phase"}),
		vectorsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vectors_loaded_total",
			Help:      "Signatures read from storage",
		}),
		rmse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rmse",
			Help:      "RMSE after the most recent round",
		}),
		clusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clusters",
			Help:      "Non-empty clusters of the most recent clustering",
		}),
		emptyClusters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_clusters_total",
			Help:      "Clusters dropped because they ended empty",
		}),
		repairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repairs_total",
			Help:      "Clusterings that needed the enforce repair",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs",
		}, []string{"status"}),
	}

	for _, m := range []prometheus.Collector{
		c.stageLatency, c.roundLatency, c.rounds, c.vectorsLoaded,
		c.rmse, c.clusters, c.emptyClusters, c.repairs, c.runs,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordLoad implements kmsig.MetricsCollector.
func (c *Collector) RecordLoad(vectors int, duration time.Duration, err error) {
	c.stageLatency.WithLabelValues("load", status(err)).Observe(duration.Seconds())
	if err == nil {
		c.vectorsLoaded.Add(float64(vectors))
	}
}

// RecordSeed implements kmsig.MetricsCollector.
func (c *Collector) RecordSeed(duration time.Duration, err error) {
	c.stageLatency.WithLabelValues("seed", status(err)).Observe(duration.Seconds())
}

// RecordRound implements kmsig.MetricsCollector.
func (c *Collector) RecordRound(phase kmeans.Phase, rmse float64, duration time.Duration) {
	c.rounds.WithLabelValues(phase.String()).Inc()
	c.roundLatency.WithLabelValues(phase.String()).Observe(duration.Seconds())
	c.rmse.Set(rmse)
}

// RecordClusters implements kmsig.MetricsCollector.
func (c *Collector) RecordClusters(clusters, empty int, repaired bool) {
	c.clusters.Set(float64(clusters))
	c.emptyClusters.Add(float64(empty))
	if repaired {
		c.repairs.Inc()
	}
}

// RecordSave implements kmsig.MetricsCollector.
func (c *Collector) RecordSave(duration time.Duration, err error) {
	c.stageLatency.WithLabelValues("save", status(err)).Observe(duration.Seconds())
}

// RecordRun implements kmsig.MetricsCollector.
func (c *Collector) RecordRun(duration time.Duration, err error) {
	c.stageLatency.WithLabelValues("run", status(err)).Observe(duration.Seconds())
	c.runs.WithLabelValues(status(err)).Inc()
}
