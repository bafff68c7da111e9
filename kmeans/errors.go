package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the parent of every configuration error.
	ErrConfiguration = errors.New("kmeans: invalid configuration")

	// ErrInvalidNumClusters is returned when k is not positive or exceeds the dataset size.
	ErrInvalidNumClusters = fmt.Errorf("%w: number of clusters", ErrConfiguration)

	// ErrInvalidNumThreads is returned when the worker count is not positive.
	ErrInvalidNumThreads = fmt.Errorf("%w: number of threads must be positive", ErrConfiguration)

	// ErrInvalidMaxIters is returned when MaxIters is below -1.
	ErrInvalidMaxIters = fmt.Errorf("%w: max iterations must be >= -1", ErrConfiguration)

	// ErrInvalidEpsilon is returned when Epsilon is negative or NaN.
	ErrInvalidEpsilon = fmt.Errorf("%w: epsilon must be a non-negative number", ErrConfiguration)

	// ErrInvalidAnnealing is returned for a negative round count or an acceptance outside [0, 1].
	ErrInvalidAnnealing = fmt.Errorf("%w: annealing", ErrConfiguration)

	// ErrInvalidSeeding is returned for an unknown Seeding value.
	ErrInvalidSeeding = fmt.Errorf("%w: unknown seeding", ErrConfiguration)

	// ErrInvalidWeights is returned when the weights do not match the dataset.
	ErrInvalidWeights = fmt.Errorf("%w: weights", ErrConfiguration)

	// ErrEmptyDataset is returned when there is nothing to cluster.
	ErrEmptyDataset = errors.New("kmeans: empty dataset")

	// ErrClosed is returned by Cluster after Close.
	ErrClosed = errors.New("kmeans: engine is closed")

	// ErrPartition is returned by Result.CheckPartition when clusters do not
	// cover every vector exactly once.
	ErrPartition = errors.New("kmeans: clusters do not partition the dataset")
)

// TooManyClustersError indicates that more clusters were requested than there
// are vectors.
//
// It unwraps to ErrInvalidNumClusters.
type TooManyClustersError struct {
	K int
	N int
}

func (e *TooManyClustersError) Error() string {
	return fmt.Sprintf("kmeans: %d clusters requested for %d vectors", e.K, e.N)
}

func (e *TooManyClustersError) Unwrap() error { return ErrInvalidNumClusters }
