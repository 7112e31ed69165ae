package gate

import (
	"github.com/latticefhe/boolfhe/lwe"
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

// smudgingFactor scales a decryption share's error sigma above the
// ciphertext's own noise, the same ratio tuneinsight-lattigo's
// multiparty package uses for its key-switch and public-key-switch
// smudging noise: large enough that summed shares statistically hide
// any single party's partial dot product.
const smudgingFactor = 8

// DecryptionShare is one party's contribution to §6's multi-party
// decryption of a ciphertext: -<a, sk_share> plus smudging noise, so
// that summing every party's share and adding ct.B recovers the
// message without a single share leaking information about the secret
// slice it was computed from.
type DecryptionShare struct {
	Value uint64
}

// GenDecryptionShare builds this party's share of ct's decryption,
// using skShare, this party's additive slice of the ideal LWE secret.
func GenDecryptionShare(params rlwe.Parameters, ct *lwe.Ciphertext, skShare *secret.LweSecret, errSource *sampling.Source) (*DecryptionShare, error) {
	q := params.LweQ()
	if len(ct.A) != skShare.N {
		return nil, newError(InvalidParameter, "gate: decryption share: ciphertext has %d a-coordinates, secret share has %d", len(ct.A), skShare.N)
	}

	neg := ring.NegMod(dotLwe(ct.A, skShare.Coords, q), q)

	gs := ring.NewGaussianSampler(errSource, params.ErrorSigma()*smudgingFactor, params.ErrorBound())
	smudge := make([]uint64, 1)
	gs.ReadGaussian(q, smudge)

	return &DecryptionShare{Value: ring.AddMod(neg, smudge[0], q)}, nil
}

// AggregateDecryptionShares sums every party's share, folds in ct.B,
// and rounds the result to the bit it encrypts.
func AggregateDecryptionShares(params rlwe.Parameters, ct *lwe.Ciphertext, shares []*DecryptionShare) bool {
	q := params.LweQ()

	sum := ct.B
	for _, s := range shares {
		sum = ring.AddMod(sum, s.Value, q)
	}

	return roundBit(sum, q)
}
