package rlwe

import "github.com/latticefhe/boolfhe/ring"

// Evaluator carries the key material needed for operations that act on
// ciphertexts after encryption: currently the Galois automorphism of
// §4.I. Auto keys are looked up by Galois element (see the note on
// [GenGaloisKey] about index convention).
type Evaluator struct {
	Params   Parameters
	AutoKeys map[uint64]*ExpandedKeySwitchKey
}

// NewEvaluator builds an Evaluator over the given expanded auto keys.
func NewEvaluator(params Parameters, autoKeys map[uint64]*ExpandedKeySwitchKey) *Evaluator {
	return &Evaluator{Params: params, AutoKeys: autoKeys}
}

// Automorphism implements the Galois auto operator of §4.I: given ctIn
// encrypting m under s, and k with an auto key for s(X^k) -> s on file,
// produces ctOut encrypting m(X^k) under s.
//
// It applies the automorphism to both rows, then key-switches the
// automorphed a row back onto s using the auto key's gadget rows,
// exactly the structure original_source's galois_auto follows:
// decompose the permuted a, dot it against the key's (a_j, b_j) rows,
// and fold the permuted b back in untouched.
func (e *Evaluator) Automorphism(ctIn *Ciphertext, k uint64, ctOut *Ciphertext) error {
	ek, ok := e.AutoKeys[k]
	if !ok {
		return newError(MissingKey, "rlwe: automorphism: no auto key for galois element %d", k)
	}

	r := e.Params.RingQ()
	g := e.Params.AutoGadget()
	d := g.D()

	idx, sign := ring.GenerateAutoMap(r.N, int(k))

	aAuto := r.NewPoly()
	r.ApplyAutomorphism(ctIn.A.Coeffs, idx, sign, aAuto.Coeffs)
	bAuto := r.NewPoly()
	r.ApplyAutomorphism(ctIn.B.Coeffs, idx, sign, bAuto.Coeffs)

	digitPolys := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		digitPolys[j] = r.NewPoly()
	}
	for i, c := range aAuto.Coeffs {
		digits := g.Decompose(c)
		for j := 0; j < d; j++ {
			digitPolys[j].Coeffs[i] = digits[j]
		}
	}

	aAcc := r.NewPoly()
	bAcc := r.NewPoly()
	for j := 0; j < d; j++ {
		r.Forward(digitPolys[j].Coeffs)

		tmp := r.NewPoly()
		r.MulCoeffs(digitPolys[j].Coeffs, ek.A[j].Coeffs, tmp.Coeffs)
		r.Add(aAcc.Coeffs, tmp.Coeffs, aAcc.Coeffs)

		r.MulCoeffs(digitPolys[j].Coeffs, ek.B[j].Coeffs, tmp.Coeffs)
		r.Add(bAcc.Coeffs, tmp.Coeffs, bAcc.Coeffs)
	}

	r.Backward(aAcc.Coeffs)
	r.Backward(bAcc.Coeffs)

	r.Add(bAcc.Coeffs, bAuto.Coeffs, bAcc.Coeffs)

	ctOut.A = aAcc
	ctOut.B = bAcc
	ctOut.IsTrivial = false

	return nil
}
