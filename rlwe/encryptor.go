package rlwe

import (
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

// PublicKey is an encryption of zero (p0, p1) under some secret: p1 =
// p0*s + e. Public-key encryption re-randomizes by an ephemeral u.
type PublicKey struct {
	P0, P1 ring.Poly
}

// Encryptor implements §4.D's rlwe_secret_encrypt and
// rlwe_public_key_encrypt. A default [sampling.Source] drives uniform
// and error draws for the non-seeded paths; the seeded paths take an
// explicit seed instead.
type Encryptor struct {
	Params Parameters
	Source *sampling.Source
}

// NewEncryptor builds an [Encryptor] over params, drawing non-seeded
// randomness from source.
func NewEncryptor(params Parameters, source *sampling.Source) *Encryptor {
	return &Encryptor{Params: params, Source: source}
}

// mulCoeffDomain returns a*b, both given in coefficient domain.
func mulCoeffDomain(r *ring.Ring, a, b ring.Poly) ring.Poly {
	ae, be := a.CopyNew(), b.CopyNew()
	r.Forward(ae.Coeffs)
	r.Forward(be.Coeffs)
	out := r.NewPoly()
	r.MulCoeffs(ae.Coeffs, be.Coeffs, out.Coeffs)
	r.Backward(out.Coeffs)
	return out
}

func (e *Encryptor) errorPoly(source *sampling.Source) ring.Poly {
	r := e.Params.RingQ()
	gs := ring.NewGaussianSampler(source, e.Params.ErrorSigma(), e.Params.ErrorBound())
	p := r.NewPoly()
	gs.ReadGaussian(r.Q, p.Coeffs)
	return p
}

// EncryptSecret implements rlwe_secret_encrypt(m, s): a <- U(R_q), e <-
// chi, ctOut = (a, a*s + m + e).
func (e *Encryptor) EncryptSecret(m ring.Poly, sk *secret.RlweSecret, ctOut *Ciphertext) {
	r := e.Params.RingQ()

	u := ring.NewUniformSampler(e.Source)
	a := r.NewPoly()
	r.Read(u, a)

	err := e.errorPoly(e.Source)

	as := mulCoeffDomain(r, a, sk.Poly)
	b := r.NewPoly()
	r.Add(as.Coeffs, m.Coeffs, b.Coeffs)
	r.Add(b.Coeffs, err.Coeffs, b.Coeffs)

	ctOut.A = a
	ctOut.B = b
	ctOut.IsTrivial = false
}

// EncryptSecretSeeded is the seeded variant of EncryptSecret: a is drawn
// from a Source keyed on seed, and only b plus the seed are returned.
func (e *Encryptor) EncryptSecretSeeded(m ring.Poly, sk *secret.RlweSecret, seed sampling.Seed) *SeededCiphertext {
	r := e.Params.RingQ()

	seededSource := sampling.NewSource(seed)
	u := ring.NewUniformSampler(seededSource)
	a := r.NewPoly()
	r.Read(u, a)

	err := e.errorPoly(e.Source)

	as := mulCoeffDomain(r, a, sk.Poly)
	b := r.NewPoly()
	r.Add(as.Coeffs, m.Coeffs, b.Coeffs)
	r.Add(b.Coeffs, err.Coeffs, b.Coeffs)

	return &SeededCiphertext{B: b, Seed: seed}
}

// GenPublicKey generates a public key (p0, p1) = encryption of zero
// under sk.
func (e *Encryptor) GenPublicKey(sk *secret.RlweSecret) *PublicKey {
	r := e.Params.RingQ()
	ct := NewCiphertext(e.Params)
	e.EncryptSecret(r.NewPoly(), sk, ct)
	return &PublicKey{P0: ct.A, P1: ct.B}
}

// EncryptPublic implements rlwe_public_key_encrypt((p0, p1), m): sample
// u in ternary with Hamming weight N/2, two errors e0, e1; output
// (p0*u + e0, p1*u + m + e1).
func (e *Encryptor) EncryptPublic(m ring.Poly, pk *PublicKey, ctOut *Ciphertext) error {
	r := e.Params.RingQ()

	u, err := secret.RandomRlweSecret(r, r.N/2, e.Source)
	if err != nil {
		return newError(InvalidParameter, "rlwe: public-key encrypt: %v", err)
	}

	e0 := e.errorPoly(e.Source)
	e1 := e.errorPoly(e.Source)

	p0u := mulCoeffDomain(r, pk.P0, u.Poly)
	p1u := mulCoeffDomain(r, pk.P1, u.Poly)

	a := r.NewPoly()
	r.Add(p0u.Coeffs, e0.Coeffs, a.Coeffs)

	b := r.NewPoly()
	r.Add(p1u.Coeffs, m.Coeffs, b.Coeffs)
	r.Add(b.Coeffs, e1.Coeffs, b.Coeffs)

	ctOut.A = a
	ctOut.B = b
	ctOut.IsTrivial = false

	return nil
}
