// Package rgsw implements the RGSW (Ring-GSW) encryption scheme of §4.E,
// the external product of §4.G and the internal product of §4.H.
//
// An RGSW ciphertext encrypting m is two gadget-rowed RLWE' vectors,
// RLWE'(-s*m) and RLWE'(m): 2*D rows each, 4*D rows total, laid out as
// [A'(-sm) | B'(-sm) | A'(m) | B'(m)]. Only 3*D rows travel on the wire:
// A'(m) regenerates deterministically from a seed, the same trick
// rlwe.SeededCiphertext uses for its single a row (§3, §4.J).
package rgsw

import (
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/sampling"
)

// Ciphertext is an expanded (evaluation-domain) RGSW ciphertext: all 4*D
// rows present and NTT-forward transformed, ready for the external and
// internal product.
type Ciphertext struct {
	// NegSM[0], NegSM[1] are the A and B rows of RLWE'(-s*m), D each.
	NegSM [2][]ring.Poly
	// M[0], M[1] are the A and B rows of RLWE'(m), D each.
	M [2][]ring.Poly
}

// D returns the gadget digit count this ciphertext was built with.
func (ct *Ciphertext) D() int {
	return len(ct.NegSM[0])
}

// SeededCiphertext stores the 3*D rows secret-key encryption actually
// produces: A'(-sm), B'(-sm), B'(m). A'(m)'s D rows regenerate from Seed
// in the same row order [Expand] draws them in.
type SeededCiphertext struct {
	NegSM [2][]ring.Poly // A'(-sm), B'(-sm)
	BM    []ring.Poly    // B'(m)
	Seed  sampling.Seed
}

// D returns the gadget digit count this ciphertext was built with.
func (ct *SeededCiphertext) D() int {
	return len(ct.BM)
}

// Expand regenerates A'(m) from Seed, forward-NTTs every row, and
// returns the evaluation-domain ciphertext the external/internal
// product consume. Expanding the same seeded ciphertext twice yields
// byte-identical results (§9's determinism contract).
func (sc *SeededCiphertext) Expand(r *ring.Ring) *Ciphertext {
	d := sc.D()

	negSmA := make([]ring.Poly, d)
	negSmB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		a := sc.NegSM[0][j].CopyNew()
		r.Forward(a.Coeffs)
		negSmA[j] = a

		b := sc.NegSM[1][j].CopyNew()
		r.Forward(b.Coeffs)
		negSmB[j] = b
	}

	source := sampling.NewSource(sc.Seed)
	u := ring.NewUniformSampler(source)
	mA := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		a := r.NewPoly()
		r.Read(u, a)
		r.Forward(a.Coeffs)
		mA[j] = a
	}

	mB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		b := sc.BM[j].CopyNew()
		r.Forward(b.Coeffs)
		mB[j] = b
	}

	return &Ciphertext{NegSM: [2][]ring.Poly{negSmA, negSmB}, M: [2][]ring.Poly{mA, mB}}
}

// ExpandCoeffDomain is [Expand] without the forward NTT: it regenerates
// A'(m) from Seed and assembles the full 4*D-row ciphertext in
// coefficient domain. This is the form [Evaluator.InternalProduct]
// wants for the row being decomposed (its first argument), as opposed
// to the evaluation-domain form every other consumer wants.
func (sc *SeededCiphertext) ExpandCoeffDomain(r *ring.Ring) *Ciphertext {
	d := sc.D()

	negSmA := make([]ring.Poly, d)
	negSmB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		negSmA[j] = sc.NegSM[0][j].CopyNew()
		negSmB[j] = sc.NegSM[1][j].CopyNew()
	}

	source := sampling.NewSource(sc.Seed)
	u := ring.NewUniformSampler(source)
	mA := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		a := r.NewPoly()
		r.Read(u, a)
		mA[j] = a
	}

	mB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		mB[j] = sc.BM[j].CopyNew()
	}

	return &Ciphertext{NegSM: [2][]ring.Poly{negSmA, negSmB}, M: [2][]ring.Poly{mA, mB}}
}
