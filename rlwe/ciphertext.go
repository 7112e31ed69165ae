package rlwe

import (
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/sampling"
)

// Ciphertext is an RLWE ciphertext (a, b) in coefficient domain. Once a
// writes something non-zero, IsTrivial transitions to false and never
// back (§9).
type Ciphertext struct {
	A, B      ring.Poly
	IsTrivial bool
}

// NewCiphertext allocates a zero, trivial ciphertext over params' ring.
func NewCiphertext(params Parameters) *Ciphertext {
	r := params.RingQ()
	return &Ciphertext{A: r.NewPoly(), B: r.NewPoly(), IsTrivial: true}
}

// CopyNew returns an independent copy of ct.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{A: ct.A.CopyNew(), B: ct.B.CopyNew(), IsTrivial: ct.IsTrivial}
}

// SeededCiphertext stores only b and the seed that regenerates a.
type SeededCiphertext struct {
	B    ring.Poly
	Seed sampling.Seed
}
