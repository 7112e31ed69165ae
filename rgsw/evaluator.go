package rgsw

import (
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rlwe"
)

// Evaluator implements the external product of §4.G and the internal
// product of §4.H over a fixed [rlwe.Parameters].
type Evaluator struct {
	Params rlwe.Parameters
}

// NewEvaluator builds an Evaluator over params.
func NewEvaluator(params rlwe.Parameters) *Evaluator {
	return &Evaluator{Params: params}
}

// externalProductRows computes one RLWE(m0) x RGSW(m1) -> RLWE(m0*m1)
// product, aIn/bIn given in coefficient domain, skipping the first
// skip0 gadget digits of aIn and the first skip1 digits of bIn (the
// less1_rlwe_by_rgsw optimization: dropping low-order digits the
// bootstrap's noise budget can't use anyway). skip0=skip1=0 is the full
// product. trivial suppresses the aIn contribution entirely, matching
// the rlwe_in.is_trivial() fast path: a trivial ciphertext's a-row is
// definitionally zero, so decomposing and dotting it would only add
// work for a result that's already zero.
func (e *Evaluator) externalProductRows(aIn, bIn ring.Poly, trivial bool, rgsw *Ciphertext, skip0, skip1 int) (aOut, bOut ring.Poly) {
	r := e.Params.RingQ()
	g := e.Params.RlweRgswGadget()
	d := g.D()

	aOut = r.NewPoly()
	bOut = r.NewPoly()

	if !trivial {
		digits := make([]ring.Poly, d)
		for j := 0; j < d; j++ {
			digits[j] = r.NewPoly()
		}
		for i, c := range aIn.Coeffs {
			ds := g.Decompose(c)
			for j := 0; j < d; j++ {
				digits[j].Coeffs[i] = ds[j]
			}
		}
		for j := skip0; j < d; j++ {
			r.Forward(digits[j].Coeffs)
			tmp := r.NewPoly()
			r.MulCoeffs(digits[j].Coeffs, rgsw.NegSM[0][j].Coeffs, tmp.Coeffs)
			r.Add(aOut.Coeffs, tmp.Coeffs, aOut.Coeffs)
			r.MulCoeffs(digits[j].Coeffs, rgsw.NegSM[1][j].Coeffs, tmp.Coeffs)
			r.Add(bOut.Coeffs, tmp.Coeffs, bOut.Coeffs)
		}
	}

	digits := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		digits[j] = r.NewPoly()
	}
	for i, c := range bIn.Coeffs {
		ds := g.Decompose(c)
		for j := 0; j < d; j++ {
			digits[j].Coeffs[i] = ds[j]
		}
	}
	for j := skip1; j < d; j++ {
		r.Forward(digits[j].Coeffs)
		tmp := r.NewPoly()
		r.MulCoeffs(digits[j].Coeffs, rgsw.M[0][j].Coeffs, tmp.Coeffs)
		r.Add(aOut.Coeffs, tmp.Coeffs, aOut.Coeffs)
		r.MulCoeffs(digits[j].Coeffs, rgsw.M[1][j].Coeffs, tmp.Coeffs)
		r.Add(bOut.Coeffs, tmp.Coeffs, bOut.Coeffs)
	}

	r.Backward(aOut.Coeffs)
	r.Backward(bOut.Coeffs)

	return aOut, bOut
}

// ExternalProduct implements rlwe_by_rgsw: ctOut <- ctIn x rgsw. ctIn is
// consumed in coefficient domain; ctOut is written in coefficient
// domain, not-trivial.
func (e *Evaluator) ExternalProduct(ctIn *rlwe.Ciphertext, rgsw *Ciphertext, ctOut *rlwe.Ciphertext) {
	a, b := e.externalProductRows(ctIn.A, ctIn.B, ctIn.IsTrivial, rgsw, 0, 0)
	ctOut.A = a
	ctOut.B = b
	ctOut.IsTrivial = false
}

// ExternalProductSkip implements less1_rlwe_by_rgsw: the same product,
// but the first skip0/skip1 gadget digits of a and b are never
// transformed or accumulated; the decomposer still computes every digit
// (§9's open question on the noise-budget trade-off this buys is left
// to the caller, per DESIGN.md).
func (e *Evaluator) ExternalProductSkip(ctIn *rlwe.Ciphertext, rgsw *Ciphertext, skip0, skip1 int, ctOut *rlwe.Ciphertext) {
	a, b := e.externalProductRows(ctIn.A, ctIn.B, ctIn.IsTrivial, rgsw, skip0, skip1)
	ctOut.A = a
	ctOut.B = b
	ctOut.IsTrivial = false
}

// InternalProduct implements rgsw_by_rgsw_inplace: rgswOut <-
// rgsw0 x rgsw1, computed as 2*D external products, one per gadget row
// pair of rgsw0, each against rgsw1 (which must be the freshly
// encrypted operand: noise growth depends on its norm, not rgsw0's,
// per the original's own warning).
//
// Unlike [Ciphertext] elsewhere in this package, rgsw0's rows here are
// in coefficient domain (the accumulator being decomposed), while
// rgsw1's rows are the usual evaluation-domain operand — the same
// asymmetry rlwe_by_rgsw has between ctIn and its RGSW operand.
func (e *Evaluator) InternalProduct(rgsw0Coeff *Ciphertext, rgsw1 *Ciphertext, rgswOut *Ciphertext) {
	r := e.Params.RingQ()
	d := rgsw0Coeff.D()

	process := func(aRows, bRows []ring.Poly) (outA, outB []ring.Poly) {
		outA = make([]ring.Poly, d)
		outB = make([]ring.Poly, d)
		for j := 0; j < d; j++ {
			a, b := e.externalProductRows(aRows[j], bRows[j], false, rgsw1, 0, 0)
			outA[j] = a
			outB[j] = b
		}
		return outA, outB
	}

	negSmA, negSmB := process(rgsw0Coeff.NegSM[0], rgsw0Coeff.NegSM[1])
	mA, mB := process(rgsw0Coeff.M[0], rgsw0Coeff.M[1])

	for j := 0; j < d; j++ {
		r.Forward(negSmA[j].Coeffs)
		r.Forward(negSmB[j].Coeffs)
		r.Forward(mA[j].Coeffs)
		r.Forward(mB[j].Coeffs)
	}

	rgswOut.NegSM = [2][]ring.Poly{negSmA, negSmB}
	rgswOut.M = [2][]ring.Poly{mA, mB}
}
