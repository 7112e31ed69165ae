package ring

import (
	"math/bits"

	"github.com/latticefhe/boolfhe/sampling"
)

// TernarySampler draws exact-Hamming-weight ternary vectors: h positions
// chosen without replacement by Fisher-Yates, each given a uniform ±1
// sign, every other position left at 0.
//
// The algorithm mirrors the teacher's sparse ternary sampler: shrink an
// index pool by swap-with-last as positions are consumed, and draw the
// sign bits from one batch of random bytes read up front.
type TernarySampler struct {
	*sampling.Source
}

// NewTernarySampler wraps source as a [TernarySampler].
func NewTernarySampler(source *sampling.Source) *TernarySampler {
	return &TernarySampler{Source: source}
}

// ReadSparse fills coeffs (length N) with an exact Hamming-weight-h
// ternary vector: h entries in {q-1, 1} (i.e. -1, +1 mod q), the rest 0.
func (t *TernarySampler) ReadSparse(coeffs []uint64, h int, q uint64) {
	N := len(coeffs)
	if h > N {
		h = N
	}

	for i := range coeffs {
		coeffs[i] = 0
	}

	index := make([]int, N)
	for i := range index {
		index[i] = i
	}

	size := (h + 7) >> 3
	size += size & 7
	randomBytes := make([]byte, size)
	t.Read(randomBytes)

	var ptr uint8

	for i := 0; i < h; i++ {
		mask := (uint64(1) << uint64(bits.Len64(uint64(N-i)))) - 1
		j := t.Uint64() & mask
		for j >= uint64(N-i) {
			j = t.Uint64() & mask
		}

		bit := (randomBytes[0] >> (ptr & 7)) & 1
		pos := index[j]
		if bit == 0 {
			coeffs[pos] = q - 1
		} else {
			coeffs[pos] = 1
		}

		index[j] = index[len(index)-1]
		index = index[:len(index)-1]

		ptr++
		if ptr == 8 {
			randomBytes = randomBytes[1:]
			ptr = 0
		}
	}
}
