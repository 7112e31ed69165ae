package mhe

import (
	"github.com/latticefhe/boolfhe/evk"
	"github.com/latticefhe/boolfhe/lwe"
	"github.com/latticefhe/boolfhe/rgsw"
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rlwe"
)

// AggregateMultiPartyServerKeyShares combines interactive-mode shares
// into a single seeded server key (§5): auto-key and LWE-KSK b-parts are
// summed coordinate-wise, RGSW ciphertexts are concatenated in share
// order. Every share must agree on CrSeed and carry the same auto-key
// index set; summing is order-independent (Testable Property 6).
func AggregateMultiPartyServerKeyShares(shares []*MultiPartyServerKeyShare) (*evk.SeededSinglePartyServerKey, error) {
	if len(shares) == 0 {
		return nil, newError(InvalidParameter, "mhe: aggregate: no shares")
	}

	first := shares[0]
	params := first.Params
	r := params.RingQ()

	for i, s := range shares[1:] {
		if s.CrSeed != first.CrSeed {
			return nil, newError(InconsistentShares, "mhe: aggregate: share %d has a different common reference seed", i+1)
		}
		if len(s.AutoKeys) != len(first.AutoKeys) {
			return nil, newError(InconsistentShares, "mhe: aggregate: share %d has %d auto keys, want %d", i+1, len(s.AutoKeys), len(first.AutoKeys))
		}
	}

	autoKeys := make(map[uint64]*rlwe.SeededKeySwitchKey, len(first.AutoKeys))
	for k, firstKey := range first.AutoKeys {
		d := len(firstKey.B)
		b := make([]ring.Poly, d)
		for j := 0; j < d; j++ {
			b[j] = firstKey.B[j].CopyNew()
		}
		for i, s := range shares[1:] {
			key, ok := s.AutoKeys[k]
			if !ok {
				return nil, newError(InconsistentShares, "mhe: aggregate: share %d missing auto key %d", i+1, k)
			}
			for j := 0; j < d; j++ {
				r.Add(b[j].Coeffs, key.B[j].Coeffs, b[j].Coeffs)
			}
		}
		autoKeys[k] = &rlwe.SeededKeySwitchKey{B: b, Seed: firstKey.Seed}
	}

	q := params.LweQ()
	lweRows := first.LweKsk.Rows
	lweB := make([]uint64, len(first.LweKsk.B))
	copy(lweB, first.LweKsk.B)
	for i, s := range shares[1:] {
		if s.LweKsk.Rows != lweRows {
			return nil, newError(InconsistentShares, "mhe: aggregate: share %d lwe-ksk has %d rows, want %d", i+1, s.LweKsk.Rows, lweRows)
		}
		for j := range lweB {
			lweB[j] = ring.AddMod(lweB[j], s.LweKsk.B[j], q)
		}
	}
	lweKsk := &lwe.SeededKeySwitchKey{B: lweB, Rows: lweRows, Seed: first.LweKsk.Seed}

	var rgswCts []*rgsw.SeededCiphertext
	for _, s := range shares {
		rgswCts = append(rgswCts, s.RgswCts...)
	}

	return &evk.SeededSinglePartyServerKey{
		AutoKeys: autoKeys,
		RgswCts:  rgswCts,
		LweKsk:   lweKsk,
		Seed:     first.CrSeed,
		Params:   params,
	}, nil
}
