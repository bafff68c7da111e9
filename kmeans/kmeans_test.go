package kmeans

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, cfg Config, opts ...Option) *KMeans[point] {
	t.Helper()
	km, err := New[point](euclidean{}, cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = km.Close() })
	return km
}

func line(xs ...float64) []point {
	out := make([]point, len(xs))
	for i, x := range xs {
		out[i] = point{x}
	}
	return out
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New[point](euclidean{}, DefaultConfig(0))
	assert.ErrorIs(t, err, ErrInvalidNumClusters)
	assert.ErrorIs(t, err, ErrConfiguration)

	cfg := DefaultConfig(2)
	cfg.NumThreads = 0
	_, err = New[point](euclidean{}, cfg)
	assert.ErrorIs(t, err, ErrInvalidNumThreads)
}

func TestCluster_EmptyDataset(t *testing.T) {
	km := newEngine(t, DefaultConfig(1))
	_, err := km.Cluster(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestCluster_TooManyClusters(t *testing.T) {
	km := newEngine(t, DefaultConfig(5))
	_, err := km.Cluster(context.Background(), line(1, 2, 3))

	var tooMany *TooManyClustersError
	require.True(t, errors.As(err, &tooMany))
	assert.Equal(t, 5, tooMany.K)
	assert.Equal(t, 3, tooMany.N)
	assert.ErrorIs(t, err, ErrInvalidNumClusters)
}

func TestCluster_WeightsMismatch(t *testing.T) {
	km := newEngine(t, DefaultConfig(1), WithWeights([]float64{1, 2}))
	_, err := km.Cluster(context.Background(), line(1, 2, 3))
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestCluster_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	km := newEngine(t, DefaultConfig(2))
	_, err := km.Cluster(ctx, line(1, 2, 3, 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCluster_Closed(t *testing.T) {
	km, err := New[point](euclidean{}, DefaultConfig(1))
	require.NoError(t, err)
	require.NoError(t, km.Close())
	require.NoError(t, km.Close())

	_, err = km.Cluster(context.Background(), line(1))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCluster_MaxItersZero(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.MaxIters = 0

	obs := &recordingObserver{}
	km := newEngine(t, cfg, WithSeed(7), WithMetricsObserver(obs))

	data := line(0, 1, 10, 11)
	res, err := km.Cluster(context.Background(), data)
	require.NoError(t, err)

	assert.Empty(t, res.Trace)
	assert.Empty(t, obs.rounds)
	assert.Equal(t, 1, obs.seeds)
	assert.Equal(t, 1, obs.finalized)
	require.NoError(t, res.CheckPartition(len(data)))

	// Centroids are the seeded vectors and every vector sits with its nearest one.
	centroids := res.Centroids()
	for _, c := range centroids {
		assert.Contains(t, data, c)
	}
	for i, v := range data {
		nearest, _ := LinearNearest(euclidean{}.Distance, v, centroids)
		assert.Equal(t, nearest, res.Assignments[i])
	}
}

func TestCluster_MaxItersOne(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.MaxIters = 1
	cfg.SAIters = 3

	obs := &recordingObserver{}
	km := newEngine(t, cfg, WithSeed(1), WithMetricsObserver(obs))

	res, err := km.Cluster(context.Background(), line(0, 1, 10, 11))
	require.NoError(t, err)

	assert.Len(t, res.Trace, 1)
	assert.Equal(t, 1, res.Rounds())
	assert.Zero(t, obs.count(PhaseAnneal))
	assert.InDelta(t, res.Trace[0], res.RMSE, 1e-12)
}

func TestCluster_MaxItersBound(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.MaxIters = 3
	cfg.Epsilon = 0

	km := newEngine(t, cfg, WithSeed(3))
	data := blobs([]point{{0, 0}, {5, 5}, {10, 0}, {0, 10}}, 25, 4)

	res, err := km.Cluster(context.Background(), data)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Trace)
	assert.LessOrEqual(t, len(res.Trace), 3)
}

func TestCluster_EpsilonStop(t *testing.T) {
	const eps = 1e-3

	cfg := DefaultConfig(3)
	cfg.MaxIters = -1
	cfg.Epsilon = eps

	km := newEngine(t, cfg, WithSeed(11))
	data := blobs([]point{{0, 0}, {3, 3}, {6, 0}}, 40, 5)

	res, err := km.Cluster(context.Background(), data)
	require.NoError(t, err)
	require.NotEmpty(t, res.Trace)

	trace := res.Trace
	for i := 1; i < len(trace); i++ {
		assert.LessOrEqual(t, trace[i], trace[i-1]+1e-9, "round %d", i)
	}
	for i := 1; i < len(trace)-1; i++ {
		assert.GreaterOrEqual(t, trace[i-1]-trace[i], eps, "stopped late at round %d", i)
	}
	if n := len(trace); n >= 2 {
		assert.Less(t, trace[n-2]-trace[n-1], eps)
	}
}

func TestCluster_SeparatedBlobs(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.Seeding = SeedDSquared
	cfg.NumThreads = 4
	cfg.GrainSize = 3

	km := newEngine(t, cfg, WithSeed(5))
	data := blobs([]point{{0, 0}, {100, 100}}, 10, 1)

	res, err := km.Cluster(context.Background(), data)
	require.NoError(t, err)
	require.NoError(t, res.CheckPartition(len(data)))
	require.Len(t, res.Clusters, 2)

	for i := 1; i < 10; i++ {
		assert.Equal(t, res.Assignments[0], res.Assignments[i])
		assert.Equal(t, res.Assignments[10], res.Assignments[10+i])
	}
	assert.NotEqual(t, res.Assignments[0], res.Assignments[10])
	assert.Less(t, res.RMSE, 2.0)
}

func TestCluster_Deterministic(t *testing.T) {
	data := blobs([]point{{0, 0}, {4, 4}, {8, 0}}, 30, 3)

	tests := []struct {
		name    string
		seeding Seeding
		saIters int
	}{
		{"random", SeedRandom, 0},
		{"dsquared", SeedDSquared, 0},
		{"dsquared annealing", SeedDSquared, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func(threads int) *Result[point] {
				cfg := DefaultConfig(3)
				cfg.NumThreads = threads
				cfg.Seeding = tt.seeding
				cfg.LocalTrials = 2
				cfg.SAIters = tt.saIters
				cfg.GrainSize = 7

				km := newEngine(t, cfg, WithSeed(42))
				res, err := km.Cluster(context.Background(), data)
				require.NoError(t, err)
				return res
			}

			a := run(1)
			b := run(4)
			assert.Equal(t, a.Assignments, b.Assignments)
			assert.Equal(t, a.Trace, b.Trace)
			assert.Equal(t, a.Centroids(), b.Centroids())
		})
	}
}

func TestCluster_Annealing(t *testing.T) {
	cfg := DefaultConfig(3)
	cfg.MaxIters = 5
	cfg.SAIters = 3
	cfg.SAStart = 0.5

	obs := &recordingObserver{}
	km := newEngine(t, cfg, WithSeed(9), WithMetricsObserver(obs))
	data := blobs([]point{{0, 0}, {4, 4}, {8, 0}}, 20, 3)

	res, err := km.Cluster(context.Background(), data)
	require.NoError(t, err)
	require.NoError(t, res.CheckPartition(len(data)))

	assert.Equal(t, 3, obs.count(PhaseAnneal))
	require.NotEmpty(t, obs.rounds)
	assert.Equal(t, PhaseLloyd, obs.rounds[0].phase)
	assert.Equal(t, PhaseLloyd, obs.rounds[len(obs.rounds)-1].phase)
	assert.Len(t, res.Trace, len(obs.rounds))
}

func TestCluster_EmptyClustersDropped(t *testing.T) {
	cfg := DefaultConfig(3)
	cfg.MaxIters = 0

	obs := &recordingObserver{}
	km, err := NewWithSeeder[point](euclidean{}, fixedSeeder{indices: []int{0, 0, 0}}, cfg, WithMetricsObserver(obs))
	require.NoError(t, err)
	defer km.Close()

	data := line(0, 1, 2, 10, 11, 12)
	res, err := km.Cluster(context.Background(), data)
	require.NoError(t, err)

	require.Len(t, res.Clusters, 1)
	assert.Equal(t, 6, res.Clusters[0].Size())
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, res.Assignments)
	assert.False(t, res.Repaired)
	assert.Equal(t, 2, obs.empty)
	require.NoError(t, res.CheckPartition(len(data)))
}

func TestCluster_EnforceNumClusters(t *testing.T) {
	cfg := DefaultConfig(3)
	cfg.MaxIters = 0
	cfg.EnforceNumClusters = true

	obs := &recordingObserver{}
	km, err := NewWithSeeder[point](euclidean{}, fixedSeeder{indices: []int{0, 0, 0}}, cfg, WithSeed(2), WithMetricsObserver(obs))
	require.NoError(t, err)
	defer km.Close()

	data := line(0, 1, 2, 10, 11, 12)
	res, err := km.Cluster(context.Background(), data)
	require.NoError(t, err)

	require.Len(t, res.Clusters, 3)
	for _, c := range res.Clusters {
		assert.Equal(t, 2, c.Size())
	}
	assert.True(t, res.Repaired)
	assert.True(t, obs.repaired)
	assert.Zero(t, obs.empty)
	assert.Equal(t, 1, obs.count(PhaseRepair))
	require.Len(t, res.Trace, 1)
	assert.InDelta(t, res.Trace[0], res.RMSE, 1e-12)
	require.NoError(t, res.CheckPartition(len(data)))
}

func TestCluster_FewerDistinctPointsThanClusters(t *testing.T) {
	tests := []struct {
		n, k int
	}{
		{4, 3},
		{5, 4},
		{7, 5},
		{6, 3},
		{10, 10},
	}

	for _, tt := range tests {
		data := make([]point, tt.n)
		for i := range data {
			data[i] = point{1}
		}

		t.Run(fmt.Sprintf("n=%d/k=%d", tt.n, tt.k), func(t *testing.T) {
			cfg := DefaultConfig(tt.k)
			km := newEngine(t, cfg, WithSeed(1))
			res, err := km.Cluster(context.Background(), data)
			require.NoError(t, err)
			assert.Less(t, len(res.Clusters), tt.k)
			assert.False(t, res.Repaired)
			require.NoError(t, res.CheckPartition(tt.n))

			cfg.EnforceNumClusters = true
			km = newEngine(t, cfg, WithSeed(1))
			res, err = km.Cluster(context.Background(), data)
			require.NoError(t, err)
			require.Len(t, res.Clusters, tt.k)
			assert.True(t, res.Repaired)
			require.NoError(t, res.CheckPartition(tt.n))

			lo, hi := tt.n/tt.k, (tt.n+tt.k-1)/tt.k
			for _, c := range res.Clusters {
				assert.GreaterOrEqual(t, c.Size(), lo)
				assert.LessOrEqual(t, c.Size(), hi)
			}
		})
	}
}

func TestCluster_Weights(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.MaxIters = 1

	km := newEngine(t, cfg, WithWeights([]float64{3, 1}))
	res, err := km.Cluster(context.Background(), line(0, 10))
	require.NoError(t, err)

	require.Len(t, res.Clusters, 1)
	assert.InDelta(t, 2.5, res.Clusters[0].Centroid()[0], 1e-12)
}

func TestCluster_ReuseDiscardsPreviousState(t *testing.T) {
	cfg := DefaultConfig(2)
	km := newEngine(t, cfg, WithSeed(4))

	first, err := km.Cluster(context.Background(), line(0, 1, 2, 50, 51, 52))
	require.NoError(t, err)
	firstSizes := 0
	for _, c := range first.Clusters {
		firstSizes += c.Size()
	}

	second, err := km.Cluster(context.Background(), line(0, 1, 2, 3, 4, 60, 61, 62, 63, 64))
	require.NoError(t, err)
	require.NoError(t, second.CheckPartition(10))

	total := 0
	for _, c := range first.Clusters {
		total += c.Size()
	}
	assert.Equal(t, 6, firstSizes)
	assert.Equal(t, firstSizes, total)
	require.NoError(t, first.CheckPartition(6))
}

func TestAcceptance(t *testing.T) {
	assert.InDelta(t, 0.3, acceptance(0.3, 0, 1), 1e-12)
	assert.InDelta(t, 0.3, acceptance(0.3, 0, 5), 1e-12)
	assert.InDelta(t, 0.1, acceptance(0.3, 4, 5), 1e-12)
	assert.InDelta(t, 0.2, acceptance(0.3, 2, 5), 1e-12)
}
