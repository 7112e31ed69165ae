// Package secret implements the exact-Hamming-weight ternary secrets of
// §4.A: RlweSecret, sized to the ring degree, and LweSecret, sized to
// the LWE dimension. Both are immutable after creation.
package secret

import (
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/sampling"
)

// RlweSecret is a ternary vector of length N with exact Hamming weight
// H, ready to use as an RLWE secret: Poly holds its coefficients
// reduced mod Q, in coefficient domain.
type RlweSecret struct {
	N int
	H int

	Values []int8
	Poly   ring.Poly
}

// LweSecret is a ternary vector of length N (the LWE dimension) with
// exact Hamming weight H.
type LweSecret struct {
	N int
	H int

	Values []int8
	Coords []uint64 // Values reduced mod Q, for use in LWE arithmetic
}

// RandomRlweSecret samples an [RlweSecret] of exact Hamming weight h
// over the ring r, using source as the CSPRNG.
func RandomRlweSecret(r *ring.Ring, h int, source *sampling.Source) (*RlweSecret, error) {
	if h > r.N {
		return nil, newError(InvalidParameter, "secret: hamming weight h=%d exceeds ring degree N=%d", h, r.N)
	}

	ts := ring.NewTernarySampler(source)
	poly := r.NewPoly()
	ts.ReadSparse(poly.Coeffs, h, r.Q)

	return &RlweSecret{
		N:      r.N,
		H:      h,
		Values: toSigned(poly.Coeffs, r.Q),
		Poly:   poly,
	}, nil
}

// RandomLweSecret samples an [LweSecret] of exact Hamming weight h and
// length n modulo q, using source as the CSPRNG.
func RandomLweSecret(n, h int, q uint64, source *sampling.Source) (*LweSecret, error) {
	if h > n {
		return nil, newError(InvalidParameter, "secret: hamming weight h=%d exceeds lwe dimension n=%d", h, n)
	}

	ts := ring.NewTernarySampler(source)
	coords := make([]uint64, n)
	ts.ReadSparse(coords, h, q)

	return &LweSecret{
		N:      n,
		H:      h,
		Values: toSigned(coords, q),
		Coords: coords,
	}, nil
}

// toSigned reinterprets values reduced mod q (each in {0, 1, q-1}) as
// the ternary values they encode.
func toSigned(coords []uint64, q uint64) []int8 {
	out := make([]int8, len(coords))
	for i, c := range coords {
		switch c {
		case 0:
			out[i] = 0
		case 1:
			out[i] = 1
		case q - 1:
			out[i] = -1
		default:
			// Sanity check, this error should not happen: the ternary
			// sampler only ever writes 0, 1 or q-1.
			panic("secret: non-ternary coordinate produced by sampler")
		}
	}
	return out
}
