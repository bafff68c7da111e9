package testutil

import (
	"math"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/hupe1980/kmsig/signature"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Signatures generates num signatures of dim bits, each bit set with
// probability p. Identifiers are the decimal index.
func (r *RNG) Signatures(num, dim int, p float64) []*signature.Signature {
	r.mu.Lock()
	defer r.mu.Unlock()
	return signature.Generate(r.rand, num, dim, p)
}

// ClusteredSignatures generates num signatures around clusters random
// centers. Vector i belongs to center i%clusters and differs from it in each
// bit with probability flip. The returned labels hold the center of every
// vector.
func (r *RNG) ClusteredSignatures(num, dim, clusters int, flip float64) ([]*signature.Signature, []int) {
	labels := make([]int, num)
	for i := range labels {
		labels[i] = i % clusters
	}
	return r.SignaturesWithLabels(dim, clusters, labels, flip), labels
}

// SignaturesWithLabels generates one signature per label near the center
// with that index. Labels must be in [0, clusters).
func (r *RNG) SignaturesWithLabels(dim, clusters int, labels []int, flip float64) []*signature.Signature {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := signature.Generate(r.rand, clusters, dim, 0.5)

	out := make([]*signature.Signature, len(labels))
	for i, label := range labels {
		s := centers[label].Clone().WithID(strconv.Itoa(i))
		for j := range dim {
			if r.rand.Float64() < flip {
				s.SetBit(j, !s.Bit(j))
			}
		}
		out[i] = s
	}
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var norm float64
	for k := 1; k <= n; k++ {
		norm += 1.0 / math.Pow(float64(k), s)
	}

	u := r.rand.Float64() * norm
	var sum float64
	for k := 1; k <= n; k++ {
		sum += 1.0 / math.Pow(float64(k), s)
		if sum >= u {
			return k - 1
		}
	}
	return n - 1
}

// ZipfLabels draws n labels in [0, clusters) with Zipfian skew, giving a few
// large clusters and many small ones.
func (r *RNG) ZipfLabels(n, clusters int, s float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	labels := make([]int, n)
	for i := range labels {
		labels[i] = r.zipfLocked(clusters, s)
	}
	return labels
}

// ExactNearest returns the index of the centroid closest to s by Hamming
// distance and that distance. Ties resolve to the lowest index; an empty
// centroid list returns -1.
func ExactNearest(s *signature.Signature, centroids []*signature.Signature) (int, int) {
	best, bestDist := -1, math.MaxInt
	for i, c := range centroids {
		if d := s.HammingDistance(c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// Purity scores assignments against the true labels: every cluster votes
// for its most frequent label, and the result is the fraction of vectors
// matching their cluster's vote. 1.0 means every cluster is label-pure.
func Purity(labels, assignments []int) float64 {
	if len(labels) == 0 || len(labels) != len(assignments) {
		return 0
	}

	counts := make(map[int]map[int]int)
	for i, a := range assignments {
		if counts[a] == nil {
			counts[a] = make(map[int]int)
		}
		counts[a][labels[i]]++
	}

	var matched int
	for _, byLabel := range counts {
		var best int
		for _, c := range byLabel {
			best = max(best, c)
		}
		matched += best
	}
	return float64(matched) / float64(len(labels))
}
