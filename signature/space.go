package signature

import (
	"github.com/hupe1980/kmsig/kmeans"
)

var _ kmeans.Space[*Signature] = HammingSpace{}

// HammingSpace clusters signatures by Hamming distance with a majority-vote
// prototype. It is stateless and safe for concurrent use.
type HammingSpace struct{}

// Distance returns the number of differing bits.
func (HammingSpace) Distance(a, b *Signature) float64 {
	return float64(a.HammingDistance(b))
}

// Nearest returns the closest centroid, lowest index on ties.
func (h HammingSpace) Nearest(v *Signature, centroids []*Signature) (int, float64) {
	return kmeans.LinearNearest(h.Distance, v, centroids)
}

// UpdatePrototype sets each bit whose weighted frequency among the members is
// strictly greater than one half. The centroid keeps its identifier. An empty
// member list returns centroid unchanged.
func (HammingSpace) UpdatePrototype(centroid *Signature, data []*Signature, members []int, weights []float64) *Signature {
	if len(members) == 0 {
		return centroid
	}

	dim := centroid.dim
	votes := make([]float64, dim)
	var total float64

	for _, m := range members {
		w := 1.0
		if weights != nil {
			w = weights[m]
		}
		total += w

		bits := data[m].bits
		for i, ok := bits.NextSet(0); ok && int(i) < dim; i, ok = bits.NextSet(i + 1) {
			votes[i] += w
		}
	}

	out := New(centroid.id, dim)
	half := total / 2
	for j, v := range votes {
		if v > half {
			out.bits.Set(uint(j))
		}
	}
	return out
}
