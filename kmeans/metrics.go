package kmeans

import (
	"fmt"
	"time"
)

// Phase identifies the kind of update round.
type Phase int

const (
	// PhaseLloyd is a plain assign+update round.
	PhaseLloyd Phase = iota
	// PhaseAnneal is a perturbed assign+update round.
	PhaseAnneal
	// PhaseRepair is the block split that refills empty clusters.
	PhaseRepair
)

func (p Phase) String() string {
	switch p {
	case PhaseLloyd:
		return "lloyd"
	case PhaseAnneal:
		return "anneal"
	case PhaseRepair:
		return "repair"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// MetricsObserver receives engine events. Calls happen on the goroutine
// running Cluster.
type MetricsObserver interface {
	// OnSeed is called after seeding.
	OnSeed(duration time.Duration, k int, err error)

	// OnRound is called after every completed assign+update round.
	OnRound(phase Phase, round int, rmse float64, duration time.Duration)

	// OnFinalize is called once per successful Cluster call.
	OnFinalize(clusters, empty int, repaired bool)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnSeed(time.Duration, int, error)           {}
func (NoopMetricsObserver) OnRound(Phase, int, float64, time.Duration) {}
func (NoopMetricsObserver) OnFinalize(int, int, bool)                  {}
