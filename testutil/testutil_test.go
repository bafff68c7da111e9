package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatures(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Signatures(8, 64, 0.5)

	require.Len(t, v, 8)
	assert.Equal(t, 64, v[0].Dim())
	assert.Equal(t, "7", v[7].ID())
}

func TestClusteredSignatures(t *testing.T) {
	rng := NewRNG(4711)

	v, labels := rng.ClusteredSignatures(40, 128, 4, 0.02)

	require.Len(t, v, 40)
	require.Len(t, labels, 40)

	// Members of one center are much closer to each other than to others.
	same := v[0].HammingDistance(v[4])
	other := v[0].HammingDistance(v[1])
	assert.Equal(t, labels[0], labels[4])
	assert.NotEqual(t, labels[0], labels[1])
	assert.Less(t, same, other)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Signatures(1, 64, 0.5)

	rng.Reset()
	v2 := rng.Signatures(1, 64, 0.5)

	assert.True(t, v1[0].Equal(v2[0]))
	assert.EqualValues(t, 4711, rng.Seed())
}

func TestZipfLabels(t *testing.T) {
	rng := NewRNG(1)

	labels := rng.ZipfLabels(1000, 10, 1.5)

	counts := make([]int, 10)
	for _, l := range labels {
		require.GreaterOrEqual(t, l, 0)
		require.Less(t, l, 10)
		counts[l]++
	}
	assert.Greater(t, counts[0], counts[9])
	assert.Zero(t, rng.Zipf(1, 1.5))
}

func TestExactNearest(t *testing.T) {
	rng := NewRNG(2)
	v := rng.Signatures(3, 32, 0.5)

	idx, dist := ExactNearest(v[1], v)
	assert.Equal(t, 1, idx)
	assert.Zero(t, dist)

	idx, _ = ExactNearest(v[0], nil)
	assert.Equal(t, -1, idx)
}

func TestPurity(t *testing.T) {
	labels := []int{0, 0, 1, 1, 2, 2}

	assert.InDelta(t, 1.0, Purity(labels, []int{5, 5, 3, 3, 4, 4}), 1e-12)
	assert.InDelta(t, 4.0/6.0, Purity(labels, []int{0, 0, 0, 0, 1, 1}), 1e-12)
	assert.Zero(t, Purity(labels, []int{0}))
}
