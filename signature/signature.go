package signature

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// ErrDimension is returned when a signature dimension or encoding is invalid.
var ErrDimension = errors.New("signature: invalid dimension")

// Signature is an identified bit vector. It is immutable once shared with the
// clustering engine.
type Signature struct {
	id   string
	dim  int
	bits *bitset.BitSet
}

// New returns an all-zero signature of dim bits.
func New(id string, dim int) *Signature {
	if dim < 0 {
		dim = 0
	}
	return &Signature{id: id, dim: dim, bits: bitset.New(uint(dim))}
}

// FromBytes decodes a packed signature. Dimension j is bit j%8 of byte j/8.
// b must hold exactly ceil(dim/8) bytes.
func FromBytes(id string, dim int, b []byte) (*Signature, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrDimension, dim)
	}
	if want := ByteLen(dim); len(b) != want {
		return nil, fmt.Errorf("%w: %d bytes for %d bits, want %d", ErrDimension, len(b), dim, want)
	}

	s := New(id, dim)
	for i, c := range b {
		for c != 0 {
			bit := i*8 + bits.TrailingZeros8(c)
			if bit < dim {
				s.bits.Set(uint(bit))
			}
			c &= c - 1
		}
	}
	return s, nil
}

// ByteLen returns the packed size of a dim-bit signature.
func ByteLen(dim int) int {
	return (dim + 7) / 8
}

// ID returns the identifier.
func (s *Signature) ID() string { return s.id }

// Dim returns the number of bits.
func (s *Signature) Dim() int { return s.dim }

// Bit reports whether dimension j is set.
func (s *Signature) Bit(j int) bool {
	return s.bits.Test(uint(j))
}

// SetBit sets dimension j to v.
func (s *Signature) SetBit(j int, v bool) {
	if j < 0 || j >= s.dim {
		panic(fmt.Sprintf("signature: bit %d out of range [0, %d)", j, s.dim))
	}
	s.bits.SetTo(uint(j), v)
}

// OnesCount returns the number of set bits.
func (s *Signature) OnesCount() int {
	return int(s.bits.Count())
}

// Bytes returns the packed encoding understood by FromBytes.
func (s *Signature) Bytes() []byte {
	return s.AppendBytes(make([]byte, 0, ByteLen(s.dim)))
}

// AppendBytes appends the packed encoding to dst.
func (s *Signature) AppendBytes(dst []byte) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, ByteLen(s.dim))...)
	out := dst[start:]
	for i, ok := s.bits.NextSet(0); ok && int(i) < s.dim; i, ok = s.bits.NextSet(i + 1) {
		out[i/8] |= 1 << (i % 8)
	}
	return dst
}

// WithID returns a signature with a different identifier that shares the bit
// storage with s.
func (s *Signature) WithID(id string) *Signature {
	c := *s
	c.id = id
	return &c
}

// Clone returns a deep copy.
func (s *Signature) Clone() *Signature {
	return &Signature{id: s.id, dim: s.dim, bits: s.bits.Clone()}
}

// Equal reports whether both signatures have the same dimension and bits.
// Identifiers are ignored.
func (s *Signature) Equal(o *Signature) bool {
	return s.dim == o.dim && s.bits.Equal(o.bits)
}

// HammingDistance returns the number of differing bits.
func (s *Signature) HammingDistance(o *Signature) int {
	return int(s.bits.SymmetricDifferenceCardinality(o.bits))
}

func (s *Signature) String() string {
	var sb strings.Builder
	sb.Grow(s.dim)
	for j := range s.dim {
		if s.bits.Test(uint(j)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
