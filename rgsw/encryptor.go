package rgsw

import (
	"github.com/latticefhe/boolfhe/gadget"
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

func mulCoeffDomain(r *ring.Ring, a, b ring.Poly) ring.Poly {
	ae, be := a.CopyNew(), b.CopyNew()
	r.Forward(ae.Coeffs)
	r.Forward(be.Coeffs)
	out := r.NewPoly()
	r.MulCoeffs(ae.Coeffs, be.Coeffs, out.Coeffs)
	r.Backward(out.Coeffs)
	return out
}

// Encryptor implements secret_key_encrypt_rgsw (§4.E): builds the 3*D-row
// seeded form directly, since that's what ever leaves this process.
type Encryptor struct {
	Params rlwe.Parameters
	Source *sampling.Source
}

// NewEncryptor builds an [Encryptor] over params, drawing non-seeded
// randomness (the A'(-sm) rows, both error terms) from source.
func NewEncryptor(params rlwe.Parameters, source *sampling.Source) *Encryptor {
	return &Encryptor{Params: params, Source: source}
}

func (e *Encryptor) errorPoly(r *ring.Ring) ring.Poly {
	gs := ring.NewGaussianSampler(e.Source, e.Params.ErrorSigma(), e.Params.ErrorBound())
	p := r.NewPoly()
	gs.ReadGaussian(r.Q, p.Coeffs)
	return p
}

// EncryptSecret encrypts m under sk using g, returning the seeded
// 3*D-row ciphertext. A'(m)'s rows regenerate from seed at [Expand] time.
func (e *Encryptor) EncryptSecret(m ring.Poly, sk *secret.RlweSecret, g *gadget.Gadget, seed sampling.Seed) *SeededCiphertext {
	r := e.Params.RingQ()
	d := g.D()

	u := ring.NewUniformSampler(e.Source)

	negSmA := make([]ring.Poly, d)
	negSmB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		a := r.NewPoly()
		r.Read(u, a)

		as := mulCoeffDomain(r, a, sk.Poly)
		err := e.errorPoly(r)
		b := r.NewPoly()
		r.Add(as.Coeffs, err.Coeffs, b.Coeffs)

		scaledM := r.NewPoly()
		r.MulScalar(m.Coeffs, g.Vector[j], scaledM.Coeffs)
		aRow := r.NewPoly()
		r.Add(a.Coeffs, scaledM.Coeffs, aRow.Coeffs)

		negSmA[j] = aRow
		negSmB[j] = b
	}

	seededSource := sampling.NewSource(seed)
	uSeeded := ring.NewUniformSampler(seededSource)

	bmRows := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		aPrime := r.NewPoly()
		r.Read(uSeeded, aPrime)

		asPrime := mulCoeffDomain(r, aPrime, sk.Poly)
		err := e.errorPoly(r)

		scaledM := r.NewPoly()
		r.MulScalar(m.Coeffs, g.Vector[j], scaledM.Coeffs)

		b := r.NewPoly()
		r.Add(asPrime.Coeffs, scaledM.Coeffs, b.Coeffs)
		r.Add(b.Coeffs, err.Coeffs, b.Coeffs)

		bmRows[j] = b
	}

	return &SeededCiphertext{NegSM: [2][]ring.Poly{negSmA, negSmB}, BM: bmRows, Seed: seed}
}

// EncryptPublic implements public_key_encrypt_rgsw: every row is
// re-randomized by its own ephemeral ternary u, exactly like
// [rlwe.Encryptor.EncryptPublic] but once per gadget row.
func (e *Encryptor) EncryptPublic(m ring.Poly, pk *rlwe.PublicKey, g *gadget.Gadget) (*Ciphertext, error) {
	r := e.Params.RingQ()
	d := g.D()

	rowPair := func() (ring.Poly, ring.Poly, error) {
		u, err := secret.RandomRlweSecret(r, r.N/2, e.Source)
		if err != nil {
			return ring.Poly{}, ring.Poly{}, newError(InvalidParameter, "rgsw: public-key encrypt: %v", err)
		}

		p0u := mulCoeffDomain(r, pk.P0, u.Poly)
		p1u := mulCoeffDomain(r, pk.P1, u.Poly)

		e0 := e.errorPoly(r)
		e1 := e.errorPoly(r)

		a := r.NewPoly()
		r.Add(p0u.Coeffs, e0.Coeffs, a.Coeffs)
		b := r.NewPoly()
		r.Add(p1u.Coeffs, e1.Coeffs, b.Coeffs)

		return a, b, nil
	}

	negSmA := make([]ring.Poly, d)
	negSmB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		a, b, err := rowPair()
		if err != nil {
			return nil, err
		}
		scaledM := r.NewPoly()
		r.MulScalar(m.Coeffs, g.Vector[j], scaledM.Coeffs)
		r.Add(a.Coeffs, scaledM.Coeffs, a.Coeffs)
		negSmA[j], negSmB[j] = a, b
	}

	mA := make([]ring.Poly, d)
	mB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		a, b, err := rowPair()
		if err != nil {
			return nil, err
		}
		scaledM := r.NewPoly()
		r.MulScalar(m.Coeffs, g.Vector[j], scaledM.Coeffs)
		r.Add(b.Coeffs, scaledM.Coeffs, b.Coeffs)
		mA[j], mB[j] = a, b
	}

	for j := 0; j < d; j++ {
		r.Forward(negSmA[j].Coeffs)
		r.Forward(negSmB[j].Coeffs)
		r.Forward(mA[j].Coeffs)
		r.Forward(mB[j].Coeffs)
	}

	return &Ciphertext{NegSM: [2][]ring.Poly{negSmA, negSmB}, M: [2][]ring.Poly{mA, mB}}, nil
}
