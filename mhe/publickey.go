package mhe

import (
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

// CollectivePublicKeyShare is one user's contribution to §5's
// non-interactive protocol round one: b_i = a*u_i + e_i, where a is the
// shared CRS polynomial drawn from CrSeed. Summing every share's B and
// pairing the total with the regenerated a yields a public key that
// encrypts under the ideal secret sum(u_i) without any party ever
// holding it.
type CollectivePublicKeyShare struct {
	B      ring.Poly
	CrSeed sampling.Seed
}

// GenCollectivePublicKeyShare builds one user's share under crSeed.
func GenCollectivePublicKeyShare(params rlwe.Parameters, share *secret.RlweSecret, crSeed sampling.Seed, errSource *sampling.Source) *CollectivePublicKeyShare {
	r := params.RingQ()

	a := r.NewPoly()
	r.Read(ring.NewUniformSampler(sampling.NewSource(crSeed)), a)

	as := mulCoeffDomain(r, a, share.Poly)

	gs := ring.NewGaussianSampler(errSource, params.ErrorSigma(), params.ErrorBound())
	e := r.NewPoly()
	gs.ReadGaussian(r.Q, e.Coeffs)

	b := r.NewPoly()
	r.Add(as.Coeffs, e.Coeffs, b.Coeffs)

	return &CollectivePublicKeyShare{B: b, CrSeed: crSeed}
}

func mulCoeffDomain(r *ring.Ring, a, b ring.Poly) ring.Poly {
	ae, be := a.CopyNew(), b.CopyNew()
	r.Forward(ae.Coeffs)
	r.Forward(be.Coeffs)
	out := r.NewPoly()
	r.MulCoeffs(ae.Coeffs, be.Coeffs, out.Coeffs)
	r.Backward(out.Coeffs)
	return out
}

// AggregateCollectivePublicKey sums every share's B and regenerates the
// shared A from CrSeed, producing a public key every user can later
// encrypt against without anyone having learned the secret it targets.
func AggregateCollectivePublicKey(params rlwe.Parameters, shares []*CollectivePublicKeyShare) (*rlwe.PublicKey, error) {
	if len(shares) == 0 {
		return nil, newError(InvalidParameter, "mhe: aggregate public key: no shares")
	}

	crSeed := shares[0].CrSeed
	r := params.RingQ()

	b := shares[0].B.CopyNew()
	for i, s := range shares[1:] {
		if s.CrSeed != crSeed {
			return nil, newError(InconsistentShares, "mhe: aggregate public key: share %d has a different common reference seed", i+1)
		}
		r.Add(b.Coeffs, s.B.Coeffs, b.Coeffs)
	}

	a := r.NewPoly()
	r.Read(ring.NewUniformSampler(sampling.NewSource(crSeed)), a)

	return &rlwe.PublicKey{P0: a, P1: b}, nil
}
