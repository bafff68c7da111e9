package kmeans

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/hupe1980/kmsig/internal/parallel"
)

// pcgStream is the second PCG word; the first one is the user seed.
const pcgStream = 0x9e3779b97f4a7c15

// KMeans is a reusable clustering engine. It owns a worker pool for its whole
// lifetime; call Close to release it.
type KMeans[T Vector[T]] struct {
	space   Space[T]
	seeder  Seeder[T]
	cfg     Config
	pool    *parallel.Pool
	rng     *rand.Rand
	logger  *slog.Logger
	metrics MetricsObserver
	weights []float64
	closed  bool

	// State of the current call. Reset by every Cluster call.
	data       []T
	centroids  []T
	clusters   []*Cluster[T]
	assignment []int
	trace      []float64
}

// New validates cfg, starts the worker pool and returns an engine using the
// seeder selected by cfg.Seeding.
func New[T Vector[T]](space Space[T], cfg Config, optFns ...Option) (*KMeans[T], error) {
	var seeder Seeder[T]
	switch cfg.Seeding {
	case SeedDSquared:
		seeder = NewDSquaredSeeder(space, cfg.LocalTrials)
	default:
		seeder = RandomSeeder[T]{}
	}
	return NewWithSeeder(space, seeder, cfg, optFns...)
}

// NewWithSeeder is like New but uses a caller-supplied seeder. cfg.Seeding is
// still validated but otherwise ignored.
func NewWithSeeder[T Vector[T]](space Space[T], seeder Seeder[T], cfg Config, optFns ...Option) (*KMeans[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(optFns)

	pool, err := parallel.NewPool(cfg.NumThreads)
	if err != nil {
		return nil, fmt.Errorf("kmeans: start worker pool: %w", err)
	}

	return &KMeans[T]{
		space:   space,
		seeder:  seeder,
		cfg:     cfg,
		pool:    pool,
		rng:     rand.New(rand.NewPCG(o.seed, pcgStream)),
		logger:  o.logger,
		metrics: o.metrics,
		weights: o.weights,
	}, nil
}

// Config returns the engine configuration.
func (km *KMeans[T]) Config() Config {
	return km.cfg
}

// Close stops the worker pool. Cluster returns ErrClosed afterwards.
//
// Close is idempotent but, like every other method, must not be called
// concurrently with Cluster or with another Close: the engine has a single
// owner.
func (km *KMeans[T]) Close() error {
	if km.closed {
		return nil
	}
	km.closed = true
	km.pool.Close()
	return nil
}

// Cluster partitions data into at most NumClusters clusters.
//
// State from any previous call is discarded. ctx is checked between rounds;
// a round that has started always completes.
func (km *KMeans[T]) Cluster(ctx context.Context, data []T) (*Result[T], error) {
	if km.closed {
		return nil, ErrClosed
	}

	start := time.Now()

	n := len(data)
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if k := km.cfg.NumClusters; k > n {
		return nil, &TooManyClustersError{K: k, N: n}
	}
	if km.weights != nil && len(km.weights) != n {
		return nil, fmt.Errorf("%w: %d weights for %d vectors", ErrInvalidWeights, len(km.weights), n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	km.reset(data)

	if err := km.seed(); err != nil {
		return nil, err
	}

	km.assign()
	if km.cfg.MaxIters == 0 {
		return km.finalize(start), nil
	}

	roundStart := time.Now()
	km.updateCentroids()
	km.record(PhaseLloyd, roundStart)
	if km.cfg.MaxIters == 1 {
		return km.finalize(start), nil
	}

	if err := km.lloyd(ctx, 1); err != nil {
		return nil, err
	}

	if err := km.anneal(ctx); err != nil {
		return nil, err
	}

	return km.finalize(start), nil
}

func (km *KMeans[T]) reset(data []T) {
	km.data = data
	km.centroids = nil
	km.clusters = nil
	km.trace = nil
	km.assignment = make([]int, len(data))
	for i := range km.assignment {
		km.assignment[i] = -1
	}
}

func (km *KMeans[T]) seed() error {
	start := time.Now()
	k := km.cfg.NumClusters

	centroids, err := km.seeder.Seed(km.rng, km.data, k)
	if err == nil && len(centroids) != k {
		err = fmt.Errorf("kmeans: seeder returned %d centroids, want %d", len(centroids), k)
	}
	km.metrics.OnSeed(time.Since(start), len(centroids), err)
	if err != nil {
		return err
	}

	km.centroids = centroids
	km.clusters = make([]*Cluster[T], len(centroids))
	for i, c := range centroids {
		km.clusters[i] = newCluster(i, c)
	}

	km.logger.Debug("kmeans seeded",
		"k", k,
		"vectors", len(km.data),
		"seeder", fmt.Sprintf("%T", km.seeder),
		"duration", time.Since(start),
	)
	return nil
}

// lloyd runs assign+update rounds until the RMSE improvement drops below
// Epsilon, the assignment stops changing, or MaxIters rounds (counting done
// rounds already run in this phase) have completed.
func (km *KMeans[T]) lloyd(ctx context.Context, done int) error {
	iter := done
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		roundStart := time.Now()
		changed := km.assign()
		km.updateCentroids()
		km.record(PhaseLloyd, roundStart)
		iter++

		if !changed || km.improvement() < km.cfg.Epsilon {
			return nil
		}
		if km.cfg.MaxIters >= 0 && iter >= km.cfg.MaxIters {
			return nil
		}
	}
}

// improvement returns how much the last round lowered the RMSE.
func (km *KMeans[T]) improvement() float64 {
	n := len(km.trace)
	if n < 2 {
		return math.Inf(1)
	}
	return km.trace[n-2] - km.trace[n-1]
}

// assign runs the parallel nearest-centroid lookup, then rebuilds the member
// lists. It reports whether any assignment changed.
func (km *KMeans[T]) assign() bool {
	changed := km.assignNearest()
	km.rebuild()
	return changed
}

func (km *KMeans[T]) assignNearest() bool {
	var changed atomic.Bool
	parallel.For(km.pool, 0, len(km.data), km.cfg.grainSize(), func(i int) {
		idx, _ := km.space.Nearest(km.data[i], km.centroids)
		if idx != km.assignment[i] {
			km.assignment[i] = idx
			changed.Store(true)
		}
	})
	return changed.Load()
}

func (km *KMeans[T]) rebuild() {
	for _, c := range km.clusters {
		c.clearMembers()
	}
	for i, j := range km.assignment {
		km.clusters[j].addMember(i)
	}
}

// updateCentroids recomputes every non-empty centroid, one task per cluster.
func (km *KMeans[T]) updateCentroids() {
	parallel.For(km.pool, 0, len(km.clusters), 1, func(j int) {
		c := km.clusters[j]
		if c.Size() == 0 {
			return
		}
		c.centroid = km.space.UpdatePrototype(c.centroid, km.data, c.members, km.weights)
		km.centroids[j] = c.centroid
	})
}

// rmse is the root mean squared distance of every vector to its centroid.
func (km *KMeans[T]) rmse() float64 {
	var sse float64
	var count int
	for _, c := range km.clusters {
		for _, m := range c.members {
			d := km.space.Distance(km.data[m], c.centroid)
			sse += d * d
		}
		count += len(c.members)
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sse / float64(count))
}

func (km *KMeans[T]) record(phase Phase, roundStart time.Time) {
	rmse := km.rmse()
	km.trace = append(km.trace, rmse)

	d := time.Since(roundStart)
	km.metrics.OnRound(phase, len(km.trace), rmse, d)
	km.logger.Debug("kmeans round",
		"phase", phase.String(),
		"round", len(km.trace),
		"rmse", rmse,
		"duration", d,
	)
}

func (km *KMeans[T]) traceCopy() []float64 {
	return slices.Clone(km.trace)
}
