package rgsw

import (
	"testing"

	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

func testParams(t *testing.T) rlwe.Parameters {
	t.Helper()
	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		RlweN: 64,
		RlweQ: 12289,

		LweN: 32,
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

func randomBit(t *testing.T, source *sampling.Source) uint64 {
	t.Helper()
	var b [1]byte
	source.Read(b[:])
	return uint64(b[0] & 1)
}

// Testable property 3: external product against an encryption of 1
// leaves the RLWE ciphertext decrypting to the same message, against an
// encryption of 0 it decrypts to zero.
func TestExternalProductByEncryptedOneIsIdentity(t *testing.T) {
	params := testParams(t)
	r := params.RingQ()

	source := sampling.NewSource(sampling.NewSeed())
	sk, err := secret.RandomRlweSecret(r, r.N/2, source)
	if err != nil {
		t.Fatalf("secret: %v", err)
	}

	bit := randomBit(t, source)
	bits := make([]uint64, r.N)
	bits[0] = bit
	m := params.Encode(bits, 2)

	rlweEnc := rlwe.NewEncryptor(params, source)
	ct := rlwe.NewCiphertext(params)
	rlweEnc.EncryptSecret(m, sk, ct)

	one := r.NewPoly()
	one.Coeffs[0] = 1
	rgswEnc := NewEncryptor(params, source)
	seed := sampling.NewSeed()
	sc := rgswEnc.EncryptSecret(one, sk, params.RlweRgswGadget(), seed)
	rgswOne := sc.Expand(r)

	ev := NewEvaluator(params)
	ctOut := rlwe.NewCiphertext(params)
	ev.ExternalProduct(ct, rgswOne, ctOut)

	mPrime := rlwe.Decrypt(params, ctOut, sk)
	got := params.Decode(mPrime, 2)
	if got[0] != bit {
		t.Fatalf("external product by 1: got %d want %d", got[0], bit)
	}
}

func TestExternalProductByEncryptedZeroIsZero(t *testing.T) {
	params := testParams(t)
	r := params.RingQ()

	source := sampling.NewSource(sampling.NewSeed())
	sk, err := secret.RandomRlweSecret(r, r.N/2, source)
	if err != nil {
		t.Fatalf("secret: %v", err)
	}

	bits := make([]uint64, r.N)
	bits[0] = 1
	m := params.Encode(bits, 2)

	rlweEnc := rlwe.NewEncryptor(params, source)
	ct := rlwe.NewCiphertext(params)
	rlweEnc.EncryptSecret(m, sk, ct)

	zero := r.NewPoly()
	rgswEnc := NewEncryptor(params, source)
	seed := sampling.NewSeed()
	sc := rgswEnc.EncryptSecret(zero, sk, params.RlweRgswGadget(), seed)
	rgswZero := sc.Expand(r)

	ev := NewEvaluator(params)
	ctOut := rlwe.NewCiphertext(params)
	ev.ExternalProduct(ct, rgswZero, ctOut)

	mPrime := rlwe.Decrypt(params, ctOut, sk)
	got := params.Decode(mPrime, 2)
	if got[0] != 0 {
		t.Fatalf("external product by 0: got %d want 0", got[0])
	}
}

// Scenario: seeded RGSW expansion is deterministic.
func TestSeededCiphertextExpandIsDeterministic(t *testing.T) {
	params := testParams(t)
	r := params.RingQ()

	source := sampling.NewSource(sampling.NewSeed())
	sk, err := secret.RandomRlweSecret(r, r.N/2, source)
	if err != nil {
		t.Fatalf("secret: %v", err)
	}

	m := r.NewPoly()
	m.Coeffs[1] = 5

	enc := NewEncryptor(params, source)
	seed := sampling.NewSeed()
	sc := enc.EncryptSecret(m, sk, params.RlweRgswGadget(), seed)

	e1 := sc.Expand(r)
	e2 := sc.Expand(r)

	d := sc.D()
	for j := 0; j < d; j++ {
		if !e1.NegSM[0][j].Equal(e2.NegSM[0][j]) || !e1.NegSM[1][j].Equal(e2.NegSM[1][j]) {
			t.Fatalf("row %d: NegSM expansion not deterministic", j)
		}
		if !e1.M[0][j].Equal(e2.M[0][j]) || !e1.M[1][j].Equal(e2.M[1][j]) {
			t.Fatalf("row %d: M expansion not deterministic", j)
		}
	}
}

// Property 7 / internal product: RGSW(1) x RGSW(1), externally applied
// to a trivial ciphertext of the bit 1, still decrypts to 1.
func TestInternalProductByEncryptedOneIsIdentity(t *testing.T) {
	params := testParams(t)
	r := params.RingQ()
	g := params.RlweRgswGadget()

	source := sampling.NewSource(sampling.NewSeed())
	sk, err := secret.RandomRlweSecret(r, r.N/2, source)
	if err != nil {
		t.Fatalf("secret: %v", err)
	}

	one := r.NewPoly()
	one.Coeffs[0] = 1
	enc := NewEncryptor(params, source)

	seedA := sampling.NewSeed()
	rgswOneSeeded := enc.EncryptSecret(one, sk, g, seedA)
	rgswOneCoeff := rgswOneSeeded.ExpandCoeffDomain(r)

	m := r.NewPoly()
	m.Coeffs[0] = 1
	seedB := sampling.NewSeed()
	rgswMSeeded := enc.EncryptSecret(m, sk, g, seedB)
	rgswM := rgswMSeeded.Expand(r)

	ev := NewEvaluator(params)
	rgswOut := &Ciphertext{}
	ev.InternalProduct(rgswOneCoeff, rgswM, rgswOut)

	ct := rlwe.NewCiphertext(params)
	ct.A.Coeffs[0] = 0
	ct.B.Coeffs[0] = params.Delta(2)
	ct.IsTrivial = true

	ctOut := rlwe.NewCiphertext(params)
	ev.ExternalProduct(ct, rgswOut, ctOut)

	mPrime := rlwe.Decrypt(params, ctOut, sk)
	got := params.Decode(mPrime, 2)
	if got[0] != 1 {
		t.Fatalf("internal product by 1 changed message: got %d want 1", got[0])
	}
}
