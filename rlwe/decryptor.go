package rlwe

import (
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"

	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/secret"
)

// Decrypt implements rlwe_decrypt((a, b), s): computes b - a*s via NTT
// and returns the scaled message plus error, m' = Delta*m + e. The
// caller rounds/decodes (see [Parameters.Decode]).
func Decrypt(params Parameters, ct *Ciphertext, sk *secret.RlweSecret) ring.Poly {
	r := params.RingQ()

	as := mulCoeffDomain(r, ct.A, sk.Poly)
	mPrime := r.NewPoly()
	r.Sub(ct.B.Coeffs, as.Coeffs, mPrime.Coeffs)
	return mPrime
}

// MeasureNoise returns log2(||b - a*s - mIdeal||_inf), the base-2 log of
// the centered infinity norm of the noise, for diagnostics and testing
// only (§4.D). A big.Float Log2 is used because q can be up to 2^60 and
// a float64 conversion would already have lost the low bits the noise
// measurement cares about.
func MeasureNoise(params Parameters, ct *Ciphertext, mIdeal ring.Poly, sk *secret.RlweSecret) float64 {
	r := params.RingQ()

	mPrime := Decrypt(params, ct, sk)

	noise := r.NewPoly()
	r.Sub(mPrime.Coeffs, mIdeal.Coeffs, noise.Coeffs)

	var maxAbs big.Float
	for _, c := range noise.Coeffs {
		centered := r.CenteredMod(c)
		if centered < 0 {
			centered = -centered
		}
		v := new(big.Float).SetInt64(centered)
		if v.Cmp(&maxAbs) > 0 {
			maxAbs = *v
		}
	}

	if maxAbs.Sign() == 0 {
		return math.Inf(-1)
	}

	log2, _ := bigfloat.Log2(&maxAbs).Float64()
	return log2
}
