package kmeans

import "math"

// Vector is the constraint on element types. Seeding copies dataset elements
// into centroids the engine owns.
type Vector[T any] interface {
	Clone() T
}

// Space supplies everything the engine needs to know about the element type.
// Implementations must be safe for concurrent use by the worker pool.
type Space[T any] interface {
	// Distance returns the distance between a and b.
	Distance(a, b T) float64

	// Nearest returns the index of the centroid closest to v and its distance.
	// Ties resolve to the lowest index.
	Nearest(v T, centroids []T) (int, float64)

	// UpdatePrototype computes a centroid from data[members]. weights, if not
	// nil, is aligned with data. The returned value replaces centroid.
	UpdatePrototype(centroid T, data []T, members []int, weights []float64) T
}

// LinearNearest scans centroids in order and keeps the first minimum. It is
// the reference Nearest for Space implementations.
//
// It panics on an empty centroid list.
func LinearNearest[T any](distance func(a, b T) float64, v T, centroids []T) (int, float64) {
	if len(centroids) == 0 {
		panic("kmeans: nearest centroid lookup with no centroids")
	}

	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := distance(v, c); d < bestDist {
			best, bestDist = i, d
		}
	}

	return best, bestDist
}
