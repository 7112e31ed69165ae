package lwe

import (
	"github.com/latticefhe/boolfhe/gadget"
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rlwe"
	"github.com/latticefhe/boolfhe/sampling"
	"github.com/latticefhe/boolfhe/secret"
)

// SeededKeySwitchKey is the LWE-KSK of §3/§4.F: rows*D LWE ciphertexts
// encrypting beta^j*(-s_from_i) under the target secret, with only the
// b-column stored. Row i*D+j's a-vector regenerates from Seed at Expand
// time, rows drawn in index order (§4.J's expansion contract).
type SeededKeySwitchKey struct {
	B    []uint64
	Rows int
	Seed sampling.Seed
}

// KeySwitchKey is a [SeededKeySwitchKey] after expansion: both columns
// present for every row.
type KeySwitchKey struct {
	Rows []Ciphertext
}

func negatedCoords(fromCoords []int8, q uint64) []uint64 {
	out := make([]uint64, len(fromCoords))
	for i, v := range fromCoords {
		switch v {
		case 0:
			out[i] = 0
		case 1:
			out[i] = q - 1
		case -1:
			out[i] = 1
		}
	}
	return out
}

func dot(a []uint64, s []uint64, q uint64) uint64 {
	var acc uint64
	for i, ai := range a {
		acc = ring.AddMod(acc, ring.MulMod(ai, s[i], q), q)
	}
	return acc
}

// GenKeySwitchKeySeeded key-switches fromCoords (a ternary secret's own
// coordinates — e.g. a [secret.RlweSecret]'s N polynomial coefficients,
// the shape a sample-extracted LWE ciphertext is indexed by) to
// toSecret, using g for the gadget decomposition. It generalizes
// rlwe.GenKeySwitchKeySeeded's per-ring-coefficient construction to one
// LWE coordinate at a time.
func GenKeySwitchKeySeeded(params rlwe.Parameters, fromCoords []int8, toSecret *secret.LweSecret, g *gadget.Gadget, seed sampling.Seed, errSource *sampling.Source) *SeededKeySwitchKey {
	q := params.LweQ()
	neg := negatedCoords(fromCoords, q)
	d := g.D()
	n := toSecret.N
	rows := len(fromCoords) * d

	aSource := sampling.NewSource(seed)
	u := ring.NewUniformSampler(aSource)
	gs := ring.NewGaussianSampler(errSource, params.ErrorSigma(), params.ErrorBound())

	b := make([]uint64, rows)
	a := make([]uint64, n)
	var e [1]uint64
	for i, si := range neg {
		for j := 0; j < d; j++ {
			u.ReadUniform(q, a)
			val := dot(a, toSecret.Coords, q)
			val = ring.AddMod(val, ring.MulMod(g.Vector[j], si, q), q)
			gs.ReadGaussian(q, e[:])
			val = ring.AddMod(val, e[0], q)
			b[i*d+j] = val
		}
	}

	return &SeededKeySwitchKey{B: b, Rows: rows, Seed: seed}
}

// Expand regenerates every row's a-vector from Seed and pairs it with
// the stored b-value. Expanding the same key twice yields byte-identical
// rows (§9's determinism contract).
func (k *SeededKeySwitchKey) Expand(params rlwe.Parameters) *KeySwitchKey {
	q := params.LweQ()
	n := params.LweN()

	source := sampling.NewSource(k.Seed)
	u := ring.NewUniformSampler(source)

	rows := make([]Ciphertext, k.Rows)
	for i := range rows {
		a := make([]uint64, n)
		u.ReadUniform(q, a)
		rows[i] = Ciphertext{A: a, B: k.B[i]}
	}
	return &KeySwitchKey{Rows: rows}
}

// KeySwitch applies ksk to ctIn (an LWE ciphertext of dimension
// len(ctIn.A), over modulus q, under the secret ksk was built from) and
// returns a ciphertext of dimension params.LweN() under the target
// secret. g must be the same gadget used at key-generation time.
func KeySwitch(ksk *KeySwitchKey, g *gadget.Gadget, q uint64, ctIn *Ciphertext) (*Ciphertext, error) {
	d := g.D()
	if len(ctIn.A)*d != len(ksk.Rows) {
		return nil, newError(InvalidParameter, "lwe: key switch: ciphertext dimension %d * digit count %d != %d ksk rows", len(ctIn.A), d, len(ksk.Rows))
	}

	n := len(ksk.Rows[0].A)
	aOut := make([]uint64, n)
	var bOut uint64

	for i, ai := range ctIn.A {
		digits := g.Decompose(ai)
		for j := 0; j < d; j++ {
			dg := digits[j]
			if dg == 0 {
				continue
			}
			row := ksk.Rows[i*d+j]
			for k := range aOut {
				aOut[k] = ring.AddMod(aOut[k], ring.MulMod(dg, row.A[k], q), q)
			}
			bOut = ring.AddMod(bOut, ring.MulMod(dg, row.B, q), q)
		}
	}
	bOut = ring.AddMod(bOut, ctIn.B, q)

	return &Ciphertext{A: aOut, B: bOut}, nil
}
