package kmeans

import (
	"math"
	"math/rand/v2"
	"slices"
	"time"
)

// point is a dense float vector used to exercise the engine with a mean
// prototype, where Lloyd rounds never increase the RMSE.
type point []float64

func (p point) Clone() point { return slices.Clone(p) }

type euclidean struct{}

func (euclidean) Distance(a, b point) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func (e euclidean) Nearest(v point, centroids []point) (int, float64) {
	return LinearNearest(e.Distance, v, centroids)
}

func (euclidean) UpdatePrototype(centroid point, data []point, members []int, weights []float64) point {
	out := make(point, len(centroid))
	var total float64
	for _, m := range members {
		w := 1.0
		if weights != nil {
			w = weights[m]
		}
		for i, x := range data[m] {
			out[i] += w * x
		}
		total += w
	}
	if total == 0 {
		return centroid
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// fixedSeeder returns the given dataset indices as centroids.
type fixedSeeder struct {
	indices []int
}

func (s fixedSeeder) Seed(_ *rand.Rand, data []point, _ int) ([]point, error) {
	out := make([]point, len(s.indices))
	for i, idx := range s.indices {
		out[i] = data[idx].Clone()
	}
	return out, nil
}

type round struct {
	phase Phase
	rmse  float64
}

type recordingObserver struct {
	seeds     int
	rounds    []round
	finalized int
	clusters  int
	empty     int
	repaired  bool
}

func (r *recordingObserver) OnSeed(time.Duration, int, error) { r.seeds++ }

func (r *recordingObserver) OnRound(phase Phase, _ int, rmse float64, _ time.Duration) {
	r.rounds = append(r.rounds, round{phase: phase, rmse: rmse})
}

func (r *recordingObserver) OnFinalize(clusters, empty int, repaired bool) {
	r.finalized++
	r.clusters = clusters
	r.empty = empty
	r.repaired = repaired
}

func (r *recordingObserver) count(phase Phase) int {
	n := 0
	for _, rd := range r.rounds {
		if rd.phase == phase {
			n++
		}
	}
	return n
}

// blobs returns perPoint points around each center, spread by jitter.
func blobs(centers []point, perCenter int, jitter float64) []point {
	var out []point
	for _, c := range centers {
		for i := range perCenter {
			p := c.Clone()
			for d := range p {
				p[d] += jitter * float64((i*7+d*3)%5-2) / 2
			}
			out = append(out, p)
		}
	}
	return out
}
