package kmeans

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Result is the outcome of a Cluster call.
type Result[T any] struct {
	// Clusters holds the non-empty clusters in seed order.
	Clusters []*Cluster[T]

	// Assignments maps every dataset index to its position in Clusters.
	Assignments []int

	// Trace holds the RMSE after every completed assign+update round.
	Trace []float64

	// RMSE is the root mean squared distance of the final clustering.
	RMSE float64

	// Repaired reports whether the empty-cluster repair ran.
	Repaired bool
}

// Centroids returns the centroid of every cluster in Clusters order.
func (r *Result[T]) Centroids() []T {
	out := make([]T, len(r.Clusters))
	for i, c := range r.Clusters {
		out[i] = c.Centroid()
	}
	return out
}

// Rounds returns the number of completed update rounds.
func (r *Result[T]) Rounds() int {
	return len(r.Trace)
}

// CheckPartition verifies that the clusters cover [0, n) exactly once and
// agree with Assignments.
func (r *Result[T]) CheckPartition(n int) error {
	if len(r.Assignments) != n {
		return fmt.Errorf("%w: %d assignments for %d vectors", ErrPartition, len(r.Assignments), n)
	}

	seen := roaring.New()
	for p, c := range r.Clusters {
		bm := c.Bitmap()
		if uint64(c.Size()) != bm.GetCardinality() {
			return fmt.Errorf("%w: cluster %d lists a member twice", ErrPartition, c.ID())
		}
		if seen.Intersects(bm) {
			return fmt.Errorf("%w: cluster %d shares members with another cluster", ErrPartition, c.ID())
		}
		for _, m := range c.Members() {
			if r.Assignments[m] != p {
				return fmt.Errorf("%w: vector %d listed in cluster %d but assigned to %d", ErrPartition, m, p, r.Assignments[m])
			}
		}
		seen.Or(bm)
	}

	if seen.GetCardinality() != uint64(n) {
		return fmt.Errorf("%w: %d of %d vectors covered", ErrPartition, seen.GetCardinality(), n)
	}
	if n > 0 && int(seen.Maximum()) >= n {
		return fmt.Errorf("%w: member %d out of range", ErrPartition, seen.Maximum())
	}
	return nil
}
