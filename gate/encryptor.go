package gate

import (
	"github.com/latticefhe/boolfhe/lwe"
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

// delta returns round(q/2): the scale a single encrypted bit sits at.
// Unlike rlwe.Parameters.Delta, this is computed at the LWE modulus,
// since §6's client-facing ciphertexts are LWE samples, not RLWE ones.
func delta(q uint64) uint64 {
	return q/2 + q%2
}

// centeredMod reinterprets x in [0, q) as a signed residue in (-q/2, q/2].
func centeredMod(x, q uint64) int64 {
	if x > q>>1 {
		return int64(x) - int64(q)
	}
	return int64(x)
}

func roundDiv(a, b int64) int64 {
	if a >= 0 {
		return (a + b/2) / b
	}
	return -((-a + b/2) / b)
}

func roundBit(mPrime, q uint64) bool {
	v := roundDiv(centeredMod(mPrime, q), int64(delta(q))) % 2
	if v < 0 {
		v += 2
	}
	return v == 1
}

func dotLwe(a []uint64, coords []uint64, q uint64) uint64 {
	var acc uint64
	for i, ai := range a {
		acc = ring.AddMod(acc, ring.MulMod(ai, coords[i], q), q)
	}
	return acc
}

// Encryptor implements §6's Encryptor<bool, Ciphertext>: fresh LWE
// encryption of a single bit under a party's own secret.
type Encryptor struct {
	Params rlwe.Parameters
	Source *sampling.Source
}

// NewEncryptor builds an [Encryptor] over params, drawing randomness
// from source.
func NewEncryptor(params rlwe.Parameters, source *sampling.Source) *Encryptor {
	return &Encryptor{Params: params, Source: source}
}

// Encrypt encrypts bit under sk: a <- U(Z_q^n), e <- chi,
// ctOut = (a, <a, sk> + delta(q)*bit + e).
func (e *Encryptor) Encrypt(bit bool, sk *secret.LweSecret) *lwe.Ciphertext {
	q := e.Params.LweQ()
	n := e.Params.LweN()

	a := make([]uint64, n)
	ring.NewUniformSampler(e.Source).ReadUniform(q, a)

	var m uint64
	if bit {
		m = delta(q)
	}

	gs := ring.NewGaussianSampler(e.Source, e.Params.ErrorSigma(), e.Params.ErrorBound())
	errv := make([]uint64, 1)
	gs.ReadGaussian(q, errv)

	b := ring.AddMod(dotLwe(a, sk.Coords, q), m, q)
	b = ring.AddMod(b, errv[0], q)

	return &lwe.Ciphertext{A: a, B: b}
}

// Decrypt implements §6's Decryptor<bool, Ciphertext>: round
// b - <a, sk> to the nearest multiple of delta(q).
func Decrypt(params rlwe.Parameters, ct *lwe.Ciphertext, sk *secret.LweSecret) bool {
	q := params.LweQ()
	mPrime := ring.SubMod(ct.B, dotLwe(ct.A, sk.Coords, q), q)
	return roundBit(mPrime, q)
}
