package kmeans

import "github.com/RoaringBitmap/roaring/v2"

// Cluster owns a centroid and the indices of the vectors nearest to it.
//
// Member lists are rebuilt from scratch every round. Writers during the
// parallel update phase each touch a different cluster, so Cluster carries no
// lock.
type Cluster[T any] struct {
	id       int
	centroid T
	members  []int
}

func newCluster[T any](id int, centroid T) *Cluster[T] {
	return &Cluster[T]{id: id, centroid: centroid}
}

// ID returns the position of the cluster's seed centroid.
func (c *Cluster[T]) ID() int { return c.id }

// Centroid returns the current centroid.
func (c *Cluster[T]) Centroid() T { return c.centroid }

// Members returns the dataset indices assigned to the cluster, ascending.
// The slice is owned by the cluster.
func (c *Cluster[T]) Members() []int { return c.members }

// Size returns the number of members.
func (c *Cluster[T]) Size() int { return len(c.members) }

// Bitmap returns the members as a roaring bitmap.
func (c *Cluster[T]) Bitmap() *roaring.Bitmap {
	bm := roaring.New()
	for _, m := range c.members {
		bm.Add(uint32(m))
	}
	return bm
}

func (c *Cluster[T]) clearMembers() { c.members = c.members[:0] }

func (c *Cluster[T]) addMember(i int) { c.members = append(c.members, i) }
