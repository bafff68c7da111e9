package kmeans

import (
	"fmt"
	"math"
)

const (
	// DefaultMaxIters is the default bound on update rounds per Lloyd phase.
	DefaultMaxIters = 20
	// DefaultEpsilon is the default RMSE improvement below which a Lloyd phase stops.
	DefaultEpsilon = 1e-5
	// DefaultSAStart is the default initial annealing acceptance probability.
	DefaultSAStart = 0.2
	// DefaultGrainSize is the default number of items per parallel task.
	DefaultGrainSize = 64
)

// Config is the immutable engine configuration.
type Config struct {
	// NumClusters is k.
	NumClusters int

	// NumThreads is the number of pool workers.
	NumThreads int

	// MaxIters bounds the update rounds of each Lloyd phase.
	//   -1: run until the RMSE improvement drops below Epsilon
	//    0: seed and assign only, centroids are never recomputed
	//    1: a single update round
	//   >1: at most this many update rounds
	MaxIters int

	// Epsilon is the RMSE improvement threshold that ends a Lloyd phase.
	Epsilon float64

	// EnforceNumClusters repairs empty clusters once by splitting a random
	// permutation of the data into k blocks.
	EnforceNumClusters bool

	// SAStart is the acceptance probability of the first annealing round. It
	// decreases linearly to SAStart/3 over SAIters rounds.
	SAStart float64

	// SAIters is the number of annealing rounds. 0 disables annealing.
	SAIters int

	// Seeding selects the built-in seeder.
	Seeding Seeding

	// LocalTrials is the number of candidates per centroid for SeedDSquared.
	LocalTrials int

	// GrainSize is the number of items per parallel task. 0 means DefaultGrainSize.
	GrainSize int
}

// DefaultConfig returns the default configuration for k clusters.
func DefaultConfig(k int) Config {
	return Config{
		NumClusters: k,
		NumThreads:  1,
		MaxIters:    DefaultMaxIters,
		Epsilon:     DefaultEpsilon,
		SAStart:     DefaultSAStart,
		SAIters:     0,
		Seeding:     SeedRandom,
		LocalTrials: 1,
		GrainSize:   DefaultGrainSize,
	}
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.NumClusters <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidNumClusters, c.NumClusters)
	}
	if c.NumThreads <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidNumThreads, c.NumThreads)
	}
	if c.MaxIters < -1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxIters, c.MaxIters)
	}
	if c.Epsilon < 0 || math.IsNaN(c.Epsilon) {
		return fmt.Errorf("%w: %v", ErrInvalidEpsilon, c.Epsilon)
	}
	if c.SAIters < 0 {
		return fmt.Errorf("%w: rounds %d", ErrInvalidAnnealing, c.SAIters)
	}
	if c.SAIters > 0 && (c.SAStart < 0 || c.SAStart > 1 || math.IsNaN(c.SAStart)) {
		return fmt.Errorf("%w: acceptance %v", ErrInvalidAnnealing, c.SAStart)
	}
	switch c.Seeding {
	case SeedRandom, SeedDSquared:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSeeding, int(c.Seeding))
	}
	return nil
}

func (c Config) grainSize() int {
	if c.GrainSize <= 0 {
		return DefaultGrainSize
	}
	return c.GrainSize
}
