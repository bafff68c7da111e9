package kmeans

import (
	"fmt"
	"math/rand/v2"
)

// Seeder picks the initial centroids.
type Seeder[T Vector[T]] interface {
	// Seed returns min(k, len(data)) clones of dataset elements.
	Seed(rng *rand.Rand, data []T, k int) ([]T, error)
}

// Seeding selects one of the built-in seeders.
type Seeding int

const (
	// SeedRandom samples k distinct vectors uniformly.
	SeedRandom Seeding = iota
	// SeedDSquared samples with probability proportional to the squared
	// distance to the nearest centroid chosen so far (k-means++).
	SeedDSquared
)

func (s Seeding) String() string {
	switch s {
	case SeedRandom:
		return "random"
	case SeedDSquared:
		return "dsquared"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseSeeding maps a name produced by Seeding.String back to its value.
func ParseSeeding(name string) (Seeding, error) {
	switch name {
	case "random", "":
		return SeedRandom, nil
	case "dsquared", "kmeans++":
		return SeedDSquared, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeeding, name)
	}
}

// RandomSeeder shuffles the dataset indices and takes the first k.
type RandomSeeder[T Vector[T]] struct{}

// Seed implements Seeder.
func (RandomSeeder[T]) Seed(rng *rand.Rand, data []T, k int) ([]T, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumClusters, k)
	}

	perm := rng.Perm(len(data))
	k = min(k, len(data))

	centroids := make([]T, k)
	for i := range k {
		centroids[i] = data[perm[i]].Clone()
	}

	return centroids, nil
}

// DSquaredSeeder implements k-means++ seeding.
type DSquaredSeeder[T Vector[T]] struct {
	space Space[T]

	// LocalTrials is the number of candidates drawn per centroid. The
	// candidate leaving the lowest total potential wins. Values below 1 mean 1.
	LocalTrials int
}

// NewDSquaredSeeder returns a k-means++ seeder measuring distances in space.
func NewDSquaredSeeder[T Vector[T]](space Space[T], localTrials int) *DSquaredSeeder[T] {
	return &DSquaredSeeder[T]{space: space, LocalTrials: localTrials}
}

// Seed implements Seeder.
func (s *DSquaredSeeder[T]) Seed(rng *rand.Rand, data []T, k int) ([]T, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumClusters, k)
	}

	n := len(data)
	k = min(k, n)
	if k == 0 {
		return nil, nil
	}

	centroids := make([]T, 0, k)

	first := rng.IntN(n)
	centroids = append(centroids, data[first].Clone())

	// closestDistSq[i] is the squared distance from data[i] to its nearest centroid.
	closestDistSq := make([]float64, n)
	var potential float64
	for i := range data {
		d := s.space.Distance(data[i], data[first])
		closestDistSq[i] = d * d
		potential += closestDistSq[i]
	}

	trials := max(s.LocalTrials, 1)

	for len(centroids) < k {
		best := sampleD2(rng, closestDistSq, potential)

		if trials > 1 {
			bestPotential := s.potentialWith(data, closestDistSq, best)
			for range trials - 1 {
				candidate := sampleD2(rng, closestDistSq, potential)
				if p := s.potentialWith(data, closestDistSq, candidate); p < bestPotential {
					best, bestPotential = candidate, p
				}
			}
		}

		centroids = append(centroids, data[best].Clone())

		potential = 0
		for i := range data {
			d := s.space.Distance(data[i], data[best])
			closestDistSq[i] = min(closestDistSq[i], d*d)
			potential += closestDistSq[i]
		}
	}

	return centroids, nil
}

// potentialWith returns the total potential if data[candidate] were added.
func (s *DSquaredSeeder[T]) potentialWith(data []T, closestDistSq []float64, candidate int) float64 {
	var p float64
	for i := range data {
		d := s.space.Distance(data[i], data[candidate])
		p += min(closestDistSq[i], d*d)
	}
	return p
}

// sampleD2 draws an index with probability weights[i]/total. A zero total
// (every point sits on a centroid) degrades to a uniform draw.
func sampleD2(rng *rand.Rand, weights []float64, total float64) int {
	if total <= 0 {
		return rng.IntN(len(weights))
	}

	target := rng.Float64() * total

	var sum float64
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		sum += w
		if sum > target {
			return i
		}
		last = i
	}

	// Rounding left target at the very top of the range.
	return last
}
