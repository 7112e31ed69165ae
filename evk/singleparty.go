package evk

import (
	"github.com/latticefhe/boolfhe/lwe"
	"github.com/latticefhe/boolfhe/rgsw"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

// SeededSinglePartyServerKey is the wire form of a [ServerKey]: every
// component's a-rows are dropped and regenerated from sub-seeds forked,
// in order, from Seed — auto keys in Galois-element order, then RGSW
// ciphertexts in secret-coordinate order, then the LWE-KSK — matching
// §4.J's draw-order contract. Forking one sub-seed per component plays
// the role the original's single shared CSPRNG stream plays, without
// threading a live stream through three unrelated packages' generators;
// it is the same hierarchical-subseed idea §4.J already uses for the
// non-interactive CRS, applied uniformly to every mode.
type SeededSinglePartyServerKey struct {
	AutoKeys map[uint64]*rlwe.SeededKeySwitchKey
	RgswCts  []*rgsw.SeededCiphertext
	LweKsk   *lwe.SeededKeySwitchKey
	Seed     sampling.Seed
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

// GenSeededSinglePartyServerKey builds the seeded server key encrypting
// lweSecret's coordinates under rlweSecret, the single-party case of §5.
func GenSeededSinglePartyServerKey(params rlwe.Parameters, rlweSecret *secret.RlweSecret, lweSecret *secret.LweSecret, seed sampling.Seed, errSource *sampling.Source) *SeededSinglePartyServerKey {
	draw := sampling.NewSource(seed)
	r := params.RingQ()

	autoKeys := make(map[uint64]*rlwe.SeededKeySwitchKey, len(params.GaloisElements()))
	for _, k := range params.GaloisElements() {
		sub := draw.Fork().Seed()
		autoKeys[k] = rlwe.GenGaloisKey(params, rlweSecret, k, sub, errSource)
	}

	rgswEnc := rgsw.NewEncryptor(params, errSource)
	rgswCts := make([]*rgsw.SeededCiphertext, lweSecret.N)
	for i, v := range lweSecret.Values {
		m := r.NewPoly()
		m.Coeffs[0] = signedToField(v, r.Q)
		sub := draw.Fork().Seed()
		rgswCts[i] = rgswEnc.EncryptSecret(m, rlweSecret, params.RlweRgswGadget(), sub)
	}

	lweSub := draw.Fork().Seed()
	lweKsk := lwe.GenKeySwitchKeySeeded(params, rlweSecret.Values, lweSecret, params.LweKskGadget(), lweSub, errSource)

	return &SeededSinglePartyServerKey{
		AutoKeys: autoKeys,
		RgswCts:  rgswCts,
		LweKsk:   lweKsk,
		Seed:     seed,
		Params:   params,
	}
}

// Expand regenerates every a-row and assembles the evaluation-domain
// [ServerKey]. Expanding the same seeded key twice yields byte-identical
// results (§9's determinism contract) since every component's own
// Expand is itself deterministic in its stored seed.
func (sk *SeededSinglePartyServerKey) Expand() *ServerKey {
	r := sk.Params.RingQ()

	autoKeys := make(map[uint64]*rlwe.ExpandedKeySwitchKey, len(sk.AutoKeys))
	for k, seeded := range sk.AutoKeys {
		autoKeys[k] = seeded.Expand(sk.Params)
	}

	rgswCts := make([]*rgsw.Ciphertext, len(sk.RgswCts))
	for i, seeded := range sk.RgswCts {
		rgswCts[i] = seeded.Expand(r)
	}

	return &ServerKey{
		RgswCts:  rgswCts,
		AutoKeys: autoKeys,
		LweKsk:   sk.LweKsk.Expand(sk.Params),
	}
}
