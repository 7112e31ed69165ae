package mhe

import (
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rgsw"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

// NonInteractiveServerKeyShare is one user's contribution to §5's
// non-interactive protocol round two: RGSW ciphertexts of that user's
// own slice of the ideal LWE secret, encrypted under the user's own
// RLWE secret u_i (never the ideal secret), plus a u_i -> s key-switch
// key. Since no single user ever holds the ideal secret s = sum(u_i),
// the key-switch key is built by public-key encrypting each gadget row
// of -u_i under the round-one collective public key rather than by
// secret-key encryption under s.
//
// UiToS is not wire-compressed the way the interactive mode's keys are:
// [rlwe.Encryptor.EncryptPublic] re-randomizes with a fresh ephemeral
// per row, so there is no single seed an aggregator could replay to
// regenerate the A rows the way [rlwe.GenKeySwitchKeySeeded] does.
type NonInteractiveServerKeyShare struct {
	RgswCts []*rgsw.SeededCiphertext
	UiToS   []*rlwe.Ciphertext
}

// GenNonInteractiveServerKeyShare builds user i's share. uSecret is this
// user's own RLWE secret u_i (distinct from the ideal secret); lweShare
// is this user's slice of the ideal LWE secret, laid out at the offset
// [NonInteractiveServerKeyShare]s are later concatenated at (caller's
// responsibility, mirroring the interactive mode's party ordering); pk
// is the collective public key from [AggregateCollectivePublicKey].
func GenNonInteractiveServerKeyShare(params rlwe.Parameters, uSecret *secret.RlweSecret, lweShare *secret.LweSecret, pk *rlwe.PublicKey, errSource *sampling.Source) (*NonInteractiveServerKeyShare, error) {
	r := params.RingQ()
	g := params.NonInteractiveGadget()
	if g == nil {
		return nil, newError(InvalidParameter, "mhe: non-interactive: parameters carry no non-interactive gadget")
	}

	rgswEnc := rgsw.NewEncryptor(params, errSource)
	rgswCts := make([]*rgsw.SeededCiphertext, lweShare.N)
	for i, v := range lweShare.Values {
		m := r.NewPoly()
		m.Coeffs[0] = signedToField(v, r.Q)
		rgswCts[i] = rgswEnc.EncryptSecret(m, uSecret, params.RlweRgswGadget(), sampling.NewSeed())
	}

	negU := r.NewPoly()
	r.Neg(uSecret.Poly.Coeffs, negU.Coeffs)

	rlweEnc := rlwe.NewEncryptor(params, errSource)
	d := g.D()
	uiToS := make([]*rlwe.Ciphertext, d)
	for j := 0; j < d; j++ {
		scaled := r.NewPoly()
		r.MulScalar(negU.Coeffs, g.Vector[j], scaled.Coeffs)

		ct := rlwe.NewCiphertext(params)
		if err := rlweEnc.EncryptPublic(scaled, pk, ct); err != nil {
			return nil, newError(InvalidParameter, "mhe: non-interactive: ui->s ksk row %d: %v", j, err)
		}
		uiToS[j] = ct
	}

	return &NonInteractiveServerKeyShare{RgswCts: rgswCts, UiToS: uiToS}, nil
}

// KeySwitchRgswToIdeal key-switches one RGSW ciphertext encrypted under
// a user's own secret u_i into one encrypted under the ideal secret s,
// by applying that user's u_i -> s key-switch key to every one of the
// ciphertext's 4*D rows (NegSM and M alike: the external/internal
// product treats every row as an independent RLWE ciphertext under
// whatever secret the whole structure carries).
//
// This is the aggregation step the non-interactive wire format in the
// retrieval pack's reference material elides: its server-key assembly
// copies each user's RGSW rows over unchanged, implying the u_i -> s
// transform already happened upstream of what that code shows. Doing
// it explicitly here, once per user at aggregation time, keeps every
// RGSW ciphertext this package hands to [evk] encrypted under the same
// secret the auto keys and LWE-KSK are. The result can no longer be
// wire-compressed into a [rgsw.SeededCiphertext]: the key-switched a
// rows are a gadget combination, not a fresh uniform draw, so there is
// no seed that regenerates them.
func KeySwitchRgswToIdeal(params rlwe.Parameters, ct *rgsw.SeededCiphertext, uiToS []*rlwe.Ciphertext) (*rgsw.Ciphertext, error) {
	r := params.RingQ()
	g := params.NonInteractiveGadget()
	if g == nil {
		return nil, newError(InvalidParameter, "mhe: key-switch rgsw: parameters carry no non-interactive gadget")
	}
	if len(uiToS) != g.D() {
		return nil, newError(InvalidParameter, "mhe: key-switch rgsw: ui->s ksk has %d rows, want %d", len(uiToS), g.D())
	}

	keyA := make([]ring.Poly, g.D())
	keyB := make([]ring.Poly, g.D())
	for j, row := range uiToS {
		a := row.A.CopyNew()
		r.Forward(a.Coeffs)
		keyA[j] = a

		b := row.B.CopyNew()
		r.Forward(b.Coeffs)
		keyB[j] = b
	}

	keySwitchRow := func(a, b ring.Poly) (ring.Poly, ring.Poly) {
		digitPolys := make([]ring.Poly, g.D())
		for j := range digitPolys {
			digitPolys[j] = r.NewPoly()
		}
		for i, c := range a.Coeffs {
			digits := g.Decompose(c)
			for j := range digitPolys {
				digitPolys[j].Coeffs[i] = digits[j]
			}
		}

		aAcc := r.NewPoly()
		bAcc := r.NewPoly()
		tmp := r.NewPoly()
		for j := range digitPolys {
			r.Forward(digitPolys[j].Coeffs)

			r.MulCoeffs(digitPolys[j].Coeffs, keyA[j].Coeffs, tmp.Coeffs)
			r.Add(aAcc.Coeffs, tmp.Coeffs, aAcc.Coeffs)

			r.MulCoeffs(digitPolys[j].Coeffs, keyB[j].Coeffs, tmp.Coeffs)
			r.Add(bAcc.Coeffs, tmp.Coeffs, bAcc.Coeffs)
		}
		r.Backward(aAcc.Coeffs)
		r.Backward(bAcc.Coeffs)

		r.Add(bAcc.Coeffs, b.Coeffs, bAcc.Coeffs)

		r.Forward(aAcc.Coeffs)
		r.Forward(bAcc.Coeffs)
		return aAcc, bAcc
	}

	coeff := ct.ExpandCoeffDomain(r)

	d := ct.D()
	negSmA := make([]ring.Poly, d)
	negSmB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		negSmA[j], negSmB[j] = keySwitchRow(coeff.NegSM[0][j], coeff.NegSM[1][j])
	}

	mA := make([]ring.Poly, d)
	mB := make([]ring.Poly, d)
	for j := 0; j < d; j++ {
		mA[j], mB[j] = keySwitchRow(coeff.M[0][j], coeff.M[1][j])
	}

	return &rgsw.Ciphertext{NegSM: [2][]ring.Poly{negSmA, negSmB}, M: [2][]ring.Poly{mA, mB}}, nil
}
