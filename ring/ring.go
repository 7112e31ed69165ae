package ring

import (
	"fmt"
	"math/bits"
)

// MinRingDegree is the smallest ring degree this package accepts;
// NewRing rejects any smaller N.
const MinRingDegree = 16

// ArithmeticOps is the element-wise ring arithmetic an evaluator needs.
// It matches the external collaborator the rest of this module is
// written against. Callers elsewhere in the module also read Ring's N
// and Q fields and call its NTT methods directly.
type ArithmeticOps interface {
	Add(p1, p2, p3 []uint64)
	Sub(p1, p2, p3 []uint64)
	Neg(p1, p2 []uint64)
	MulCoeffs(p1, p2, p3 []uint64)
	MulCoeffsThenAdd(p1, p2, p3 []uint64)
	Modulus() uint64
}

// VectorOps extends ArithmeticOps with scalar operations over a full row.
type VectorOps interface {
	ArithmeticOps
	MulScalar(p1 []uint64, scalar uint64, p2 []uint64)
}

// Ring holds the precomputed state for arithmetic and the negacyclic NTT
// over R_q = Z_q[X]/(X^N+1), for a single NTT-friendly prime Q.
type Ring struct {
	N int
	Q uint64

	primitiveRoot uint64
	nttTable      *nttTable
}

// NewRing builds a Ring of degree N modulo the prime Q. Q must be prime
// and congruent to 1 mod 2N so that a primitive 2N-th root of unity
// exists (the negacyclic NTT requirement).
func NewRing(N int, Q uint64) (*Ring, error) {
	if N < MinRingDegree || N&(N-1) != 0 {
		return nil, fmt.Errorf("ring: N=%d must be a power of two >= %d", N, MinRingDegree)
	}

	if !IsPrime(Q) {
		return nil, fmt.Errorf("ring: Q=%d is not prime", Q)
	}

	nthRoot := uint64(2 * N)
	if (Q-1)%nthRoot != 0 {
		return nil, fmt.Errorf("ring: Q=%d is not congruent to 1 mod 2N=%d", Q, nthRoot)
	}

	if bits.Len64(Q) > 62 {
		return nil, fmt.Errorf("ring: Q=%d exceeds the 62-bit range this package supports", Q)
	}

	r := &Ring{N: N, Q: Q}

	g := PrimitiveRoot(Q)
	r.primitiveRoot = g

	psi := ModExp(g, (Q-1)/nthRoot, Q)
	r.nttTable = newNTTTable(N, Q, psi)

	return r, nil
}

// NewPoly allocates a zero polynomial of this ring's degree.
func (r *Ring) NewPoly() Poly {
	return NewPoly(r.N)
}

// Modulus returns Q.
func (r *Ring) Modulus() uint64 {
	return r.Q
}

// LogN returns log2(N).
func (r *Ring) LogN() int {
	return bits.Len64(uint64(r.N) - 1)
}

// Add computes p3 = p1 + p2 mod Q, coefficient-wise.
func (r *Ring) Add(p1, p2, p3 []uint64) {
	q := r.Q
	for i := range p3 {
		p3[i] = AddMod(p1[i], p2[i], q)
	}
}

// Sub computes p3 = p1 - p2 mod Q, coefficient-wise.
func (r *Ring) Sub(p1, p2, p3 []uint64) {
	q := r.Q
	for i := range p3 {
		p3[i] = SubMod(p1[i], p2[i], q)
	}
}

// Neg computes p2 = -p1 mod Q, coefficient-wise.
func (r *Ring) Neg(p1, p2 []uint64) {
	q := r.Q
	for i := range p2 {
		p2[i] = NegMod(p1[i], q)
	}
}

// MulCoeffs computes p3 = p1 * p2 mod Q, coefficient-wise (i.e. in
// evaluation domain, where ring multiplication is pointwise).
func (r *Ring) MulCoeffs(p1, p2, p3 []uint64) {
	q := r.Q
	for i := range p3 {
		p3[i] = MulMod(p1[i], p2[i], q)
	}
}

// MulCoeffsThenAdd computes p3 += p1 * p2 mod Q, coefficient-wise.
func (r *Ring) MulCoeffsThenAdd(p1, p2, p3 []uint64) {
	q := r.Q
	for i := range p3 {
		p3[i] = AddMod(p3[i], MulMod(p1[i], p2[i], q), q)
	}
}

// MulScalar computes p2 = p1 * scalar mod Q, coefficient-wise.
func (r *Ring) MulScalar(p1 []uint64, scalar uint64, p2 []uint64) {
	q := r.Q
	s := scalar % q
	for i := range p2 {
		p2[i] = MulMod(p1[i], s, q)
	}
}

// CenteredMod reinterprets x in [0, Q) as a signed residue in
// (-Q/2, Q/2], used by noise measurement and balanced decomposition.
func (r *Ring) CenteredMod(x uint64) int64 {
	if x > r.Q>>1 {
		return int64(x) - int64(r.Q)
	}
	return int64(x)
}
