package mhe

import (
	"github.com/latticefhe/boolfhe/lwe"
	"github.com/latticefhe/boolfhe/rgsw"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

// MultiPartyServerKeyShare is one interactive-mode party's contribution
// (§5): a vector of RGSW ciphertexts encrypting that party's own slice
// of the ideal (to-be-bootstrapped) LWE secret under the party's own
// additive share of the ideal RLWE secret, plus that party's auto-key
// and LWE-KSK b-parts. Every field but RgswCts is computed against the
// same a-rows as every other party's share, since all of them fork their
// sub-seeds from the same CrSeed in the same order — that's what makes
// summing the b-parts produce a key valid under the summed secrets.
type MultiPartyServerKeyShare struct {
	AutoKeys map[uint64]*rlwe.SeededKeySwitchKey
	RgswCts  []*rgsw.SeededCiphertext
	LweKsk   *lwe.SeededKeySwitchKey
	CrSeed   sampling.Seed
	Params   rlwe.Parameters
}

func signedToField(v int8, q uint64) uint64 {
	switch v {
	case 1:
		return 1
	case -1:
		return q - 1
	default:
		return 0
	}
}

// GenMultiPartyServerKeyShare builds one party's share under the shared
// crSeed (§5's interactive mode).
//
// rlweShare is this party's additive share of the ideal RLWE secret:
// the ideal secret is the coordinate-wise sum of every party's rlweShare.
// lweShare is this party's own slice of the ideal, to-be-bootstrapped
// LWE secret: the ideal secret is the coordinate-wise concatenation of
// every party's lweShare, in party order. lweKskShare is this party's
// additive share of the final LWE secret the LWE-KSK key-switches to
// (distinct from lweShare: the LWE-KSK's target lives at params.LweN(),
// the client-facing ciphertext dimension, while lweShare's total length
// across parties is the internal bootstrap dimension).
func GenMultiPartyServerKeyShare(params rlwe.Parameters, rlweShare *secret.RlweSecret, lweShare *secret.LweSecret, lweKskShare *secret.LweSecret, crSeed sampling.Seed, errSource *sampling.Source) *MultiPartyServerKeyShare {
	draw := sampling.NewSource(crSeed)
	r := params.RingQ()

	autoKeys := make(map[uint64]*rlwe.SeededKeySwitchKey, len(params.GaloisElements()))
	for _, k := range params.GaloisElements() {
		sub := draw.Fork().Seed()
		autoKeys[k] = rlwe.GenGaloisKey(params, rlweShare, k, sub, errSource)
	}

	lweSub := draw.Fork().Seed()
	lweKsk := lwe.GenKeySwitchKeySeeded(params, rlweShare.Values, lweKskShare, params.LweKskGadget(), lweSub, errSource)

	rgswEnc := rgsw.NewEncryptor(params, errSource)
	rgswCts := make([]*rgsw.SeededCiphertext, lweShare.N)
	for i, v := range lweShare.Values {
		m := r.NewPoly()
		m.Coeffs[0] = signedToField(v, r.Q)
		rgswCts[i] = rgswEnc.EncryptSecret(m, rlweShare, params.RlweRgswGadget(), sampling.NewSeed())
	}

	return &MultiPartyServerKeyShare{
		AutoKeys: autoKeys,
		RgswCts:  rgswCts,
		LweKsk:   lweKsk,
		CrSeed:   crSeed,
		Params:   params,
	}
}
