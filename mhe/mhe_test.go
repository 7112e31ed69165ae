package mhe

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rgsw"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

func testParams(t *testing.T) rlwe.Parameters {
	t.Helper()
	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		RlweN: 64,
		RlweQ: 12289,

		LweN: 8,
		LweQ: 12289,

		Auto:           rlwe.GadgetParams{LogB: 4, D: 3},
		RlweRgsw:       rlwe.GadgetParams{LogB: 4, D: 3},
		LweKsk:         rlwe.GadgetParams{LogB: 4, D: 3},
		NonInteractive: rlwe.GadgetParams{LogB: 4, D: 3},

		GaloisGenerator: 5,
		GaloisElements:  []uint64{5},

		ErrorSigma: 3.2,
		ErrorBound: 6,
	})
	if err != nil {
		t.Fatalf("NewParametersFromLiteral: %v", err)
	}
	return params
}

func idealRlweSecret(r *ring.Ring, shares []*secret.RlweSecret) *secret.RlweSecret {
	poly := r.NewPoly()
	for _, s := range shares {
		r.Add(poly.Coeffs, s.Poly.Coeffs, poly.Coeffs)
	}
	return &secret.RlweSecret{N: r.N, Poly: poly}
}

// oneBitLweSecret builds a one-coordinate LWE secret fixed to 1, so
// tests that feed it into RGSW encryption get a deterministic
// encryption of 1 rather than whatever a ternary sampler happens to
// draw (RGSW(-1) does not behave like the identity under the external
// product the way RGSW(1) does).
func oneBitLweSecret(q uint64) *secret.LweSecret {
	return &secret.LweSecret{N: 1, H: 1, Values: []int8{1}, Coords: []uint64{1 % q}}
}

// Scenario: summing auto-key and LWE-KSK b-parts must not depend on the
// order shares arrive in (Testable Property 6).
func TestAggregateMultiPartyServerKeySharesOrderIndependent(t *testing.T) {
	params := testParams(t)
	r := params.RingQ()

	source := sampling.NewSource(sampling.NewSeed())
	crSeed := sampling.NewSeed()

	var shares []*MultiPartyServerKeyShare
	for p := 0; p < 3; p++ {
		rlweShare, err := secret.RandomRlweSecret(r, r.N/2, source)
		if err != nil {
			t.Fatalf("party %d rlwe share: %v", p, err)
		}
		lweShare, err := secret.RandomLweSecret(2, 1, params.LweQ(), source)
		if err != nil {
			t.Fatalf("party %d lwe share: %v", p, err)
		}
		lweKskShare, err := secret.RandomLweSecret(params.LweN(), params.LweN()/2, params.LweQ(), source)
		if err != nil {
			t.Fatalf("party %d lwe-ksk share: %v", p, err)
		}
		shares = append(shares, GenMultiPartyServerKeyShare(params, rlweShare, lweShare, lweKskShare, crSeed, source))
	}

	forward, err := AggregateMultiPartyServerKeyShares(shares)
	if err != nil {
		t.Fatalf("aggregate forward: %v", err)
	}
	reversed, err := AggregateMultiPartyServerKeyShares([]*MultiPartyServerKeyShare{shares[2], shares[0], shares[1]})
	if err != nil {
		t.Fatalf("aggregate reversed: %v", err)
	}

	for k := range forward.AutoKeys {
		f, rv := forward.AutoKeys[k], reversed.AutoKeys[k]
		fCoeffs := make([][]uint64, len(f.B))
		rvCoeffs := make([][]uint64, len(rv.B))
		for j := range f.B {
			fCoeffs[j] = f.B[j].Coeffs
			rvCoeffs[j] = rv.B[j].Coeffs
		}
		if diff := cmp.Diff(fCoeffs, rvCoeffs); diff != "" {
			t.Fatalf("auto key %d differs by aggregation order (-forward +reversed):\n%s", k, diff)
		}
	}
	if diff := cmp.Diff(forward.LweKsk.B, reversed.LweKsk.B); diff != "" {
		t.Fatalf("lwe-ksk differs by aggregation order (-forward +reversed):\n%s", diff)
	}
}

// Scenario: the interactive protocol's aggregated server key behaves
// like a single-party key under the summed ideal secret, end to end
// through the external product.
func TestInteractiveServerKeyExternalProductEndToEnd(t *testing.T) {
	params := testParams(t)
	r := params.RingQ()

	source := sampling.NewSource(sampling.NewSeed())
	crSeed := sampling.NewSeed()

	const parties = 2
	var rlweShares []*secret.RlweSecret
	var shares []*MultiPartyServerKeyShare
	for p := 0; p < parties; p++ {
		rlweShare, err := secret.RandomRlweSecret(r, r.N/2, source)
		if err != nil {
			t.Fatalf("party %d rlwe share: %v", p, err)
		}
		lweKskShare, err := secret.RandomLweSecret(params.LweN(), params.LweN()/2, params.LweQ(), source)
		if err != nil {
			t.Fatalf("party %d lwe-ksk share: %v", p, err)
		}
		rlweShares = append(rlweShares, rlweShare)
		var lweShare *secret.LweSecret
		if p == 0 {
			lweShare = oneBitLweSecret(params.LweQ())
		} else {
			lweShare = &secret.LweSecret{N: 1, H: 0, Values: []int8{0}, Coords: []uint64{0}}
		}
		shares = append(shares, GenMultiPartyServerKeyShare(params, rlweShare, lweShare, lweKskShare, crSeed, source))
	}

	seeded, err := AggregateMultiPartyServerKeyShares(shares)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	sk := seeded.Expand()

	ideal := idealRlweSecret(r, rlweShares)

	bits := make([]uint64, r.N)
	bits[0] = 1
	m := params.Encode(bits, 2)

	rlweEnc := rlwe.NewEncryptor(params, source)
	ct := rlwe.NewCiphertext(params)
	rlweEnc.EncryptSecret(m, ideal, ct)

	ev := rgsw.NewEvaluator(params)
	ctOut := rlwe.NewCiphertext(params)
	ev.ExternalProduct(ct, sk.RgswCts[0], ctOut)

	mPrime := rlwe.Decrypt(params, ctOut, ideal)
	got := params.Decode(mPrime, 2)
	if got[0] != 1 {
		t.Fatalf("external product under aggregated key: got %d want 1", got[0])
	}
}

// Scenario: the aggregated collective public key encrypts messages
// decryptable under the summed secret, without any party ever holding
// that secret (§5's non-interactive round one).
func TestCollectivePublicKeyEncryptsUnderSummedSecret(t *testing.T) {
	params := testParams(t)
	r := params.RingQ()

	source := sampling.NewSource(sampling.NewSeed())
	crSeed := sampling.NewSeed()

	const users = 3
	var uSecrets []*secret.RlweSecret
	var pkShares []*CollectivePublicKeyShare
	for i := 0; i < users; i++ {
		u, err := secret.RandomRlweSecret(r, r.N/2, source)
		if err != nil {
			t.Fatalf("user %d secret: %v", i, err)
		}
		uSecrets = append(uSecrets, u)
		pkShares = append(pkShares, GenCollectivePublicKeyShare(params, u, crSeed, source))
	}

	pk, err := AggregateCollectivePublicKey(params, pkShares)
	if err != nil {
		t.Fatalf("aggregate public key: %v", err)
	}

	ideal := idealRlweSecret(r, uSecrets)

	bits := make([]uint64, r.N)
	bits[0] = 1
	m := params.Encode(bits, 2)

	rlweEnc := rlwe.NewEncryptor(params, source)
	ct := rlwe.NewCiphertext(params)
	if err := rlweEnc.EncryptPublic(m, pk, ct); err != nil {
		t.Fatalf("encrypt public: %v", err)
	}

	mPrime := rlwe.Decrypt(params, ct, ideal)
	got := params.Decode(mPrime, 2)
	if got[0] != 1 {
		t.Fatalf("decrypt under summed secret: got %d want 1", got[0])
	}
}

// Scenario: a non-interactive share's RGSW ciphertexts, encrypted under
// a user's own secret, still externally-product correctly once
// key-switched onto the ideal secret (§5's non-interactive round two).
func TestNonInteractiveRgswKeySwitchPreservesExternalProduct(t *testing.T) {
	params := testParams(t)
	r := params.RingQ()

	source := sampling.NewSource(sampling.NewSeed())
	crSeed := sampling.NewSeed()

	const users = 2
	var uSecrets []*secret.RlweSecret
	var pkShares []*CollectivePublicKeyShare
	for i := 0; i < users; i++ {
		u, err := secret.RandomRlweSecret(r, r.N/2, source)
		if err != nil {
			t.Fatalf("user %d secret: %v", i, err)
		}
		uSecrets = append(uSecrets, u)
		pkShares = append(pkShares, GenCollectivePublicKeyShare(params, u, crSeed, source))
	}
	pk, err := AggregateCollectivePublicKey(params, pkShares)
	if err != nil {
		t.Fatalf("aggregate public key: %v", err)
	}
	ideal := idealRlweSecret(r, uSecrets)

	lweShare := oneBitLweSecret(params.LweQ())
	niShare, err := GenNonInteractiveServerKeyShare(params, uSecrets[0], lweShare, pk, source)
	if err != nil {
		t.Fatalf("gen non-interactive share: %v", err)
	}

	switched, err := KeySwitchRgswToIdeal(params, niShare.RgswCts[0], niShare.UiToS)
	if err != nil {
		t.Fatalf("key-switch rgsw: %v", err)
	}

	const want = uint64(1)
	bits := make([]uint64, r.N)
	bits[0] = want
	m := params.Encode(bits, 2)

	rlweEnc := rlwe.NewEncryptor(params, source)
	ct := rlwe.NewCiphertext(params)
	rlweEnc.EncryptSecret(m, ideal, ct)

	ev := rgsw.NewEvaluator(params)
	ctOut := rlwe.NewCiphertext(params)
	ev.ExternalProduct(ct, switched, ctOut)

	mPrime := rlwe.Decrypt(params, ctOut, ideal)
	got := params.Decode(mPrime, 2)
	if got[0] != want {
		t.Fatalf("external product after key-switch: got %d want %d", got[0], want)
	}
}
