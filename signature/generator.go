package signature

import (
	"math/rand/v2"
	"strconv"
)

// Generate returns n random signatures of dim bits where every bit is set
// independently with probability p. Identifiers are the decimal index.
func Generate(rng *rand.Rand, n, dim int, p float64) []*Signature {
	out := make([]*Signature, n)
	for i := range out {
		s := New(strconv.Itoa(i), dim)
		for j := range dim {
			if rng.Float64() < p {
				s.bits.Set(uint(j))
			}
		}
		out[i] = s
	}
	return out
}
