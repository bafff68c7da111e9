package kmsig

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/hupe1980/kmsig/kmeans"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after a dataset load.
	RecordLoad(vectors int, duration time.Duration, err error)

	// RecordSeed is called after the engine picked its initial centroids.
	RecordSeed(duration time.Duration, err error)

	// RecordRound is called after every completed update round.
	RecordRound(phase kmeans.Phase, rmse float64, duration time.Duration)

	// RecordClusters is called once per clustering with the final outcome.
	RecordClusters(clusters, empty int, repaired bool)

	// RecordSave is called after the outputs were written.
	RecordSave(duration time.Duration, err error)

	// RecordRun is called after Run.
	RecordRun(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)             {}
func (NoopMetricsCollector) RecordSeed(time.Duration, error)                  {}
func (NoopMetricsCollector) RecordRound(kmeans.Phase, float64, time.Duration) {}
func (NoopMetricsCollector) RecordClusters(int, int, bool)                    {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)                  {}
func (NoopMetricsCollector) RecordRun(time.Duration, error)                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	VectorsLoaded   atomic.Int64
	SeedCount       atomic.Int64
	SeedErrors      atomic.Int64
	LloydRounds     atomic.Int64
	AnnealRounds    atomic.Int64
	RepairRounds    atomic.Int64
	RoundTotalNanos atomic.Int64
	LastRMSE        atomic.Uint64 // math.Float64bits
	Clusterings     atomic.Int64
	EmptyClusters   atomic.Int64
	Repairs         atomic.Int64
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(vectors int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.VectorsLoaded.Add(int64(vectors))
}

// RecordSeed implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSeed(_ time.Duration, err error) {
	b.SeedCount.Add(1)
	if err != nil {
		b.SeedErrors.Add(1)
	}
}

// RecordRound implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRound(phase kmeans.Phase, rmse float64, duration time.Duration) {
	switch phase {
	case kmeans.PhaseAnneal:
		b.AnnealRounds.Add(1)
	case kmeans.PhaseRepair:
		b.RepairRounds.Add(1)
	default:
		b.LloydRounds.Add(1)
	}
	b.RoundTotalNanos.Add(duration.Nanoseconds())
	b.LastRMSE.Store(math.Float64bits(rmse))
}

// RecordClusters implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClusters(_, empty int, repaired bool) {
	b.Clusterings.Add(1)
	b.EmptyClusters.Add(int64(empty))
	if repaired {
		b.Repairs.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(_ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ time.Duration, err error) {
	b.RunCount.Add(1)
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RMSE returns the RMSE of the last recorded round.
func (b *BasicMetricsCollector) RMSE() float64 {
	return math.Float64frombits(b.LastRMSE.Load())
}

// engineObserver forwards engine events to a MetricsCollector.
type engineObserver struct {
	mc MetricsCollector
}

func (o engineObserver) OnSeed(duration time.Duration, _ int, err error) {
	o.mc.RecordSeed(duration, err)
}

func (o engineObserver) OnRound(phase kmeans.Phase, _ int, rmse float64, duration time.Duration) {
	o.mc.RecordRound(phase, rmse, duration)
}

func (o engineObserver) OnFinalize(clusters, empty int, repaired bool) {
	o.mc.RecordClusters(clusters, empty, repaired)
}
