package evk

import (
	"github.com/latticefhe/boolfhe/ring"
	"github.com/latticefhe/boolfhe/rgsw"
	"github.com/latticefhe/boolfhe/rlwe"
)

// ShoupPoly pairs an evaluation-domain polynomial's coefficients with
// their Shoup companions, so a multiply against it needs no 128-bit
// reduction (§3, §9's "Shoup companion layout").
type ShoupPoly struct {
	Normal []uint64
	Shoup  []uint64
}

func newShoupPoly(p ring.Poly, q uint64) ShoupPoly {
	n := len(p.Coeffs)
	normal := make([]uint64, n)
	shoup := make([]uint64, n)
	copy(normal, p.Coeffs)
	for i, c := range p.Coeffs {
		shoup[i] = ring.ComputeShoup(c, q)
	}
	return ShoupPoly{Normal: normal, Shoup: shoup}
}

func wrapRows(rows []ring.Poly, q uint64) []ShoupPoly {
	out := make([]ShoupPoly, len(rows))
	for i, row := range rows {
		out[i] = newShoupPoly(row, q)
	}
	return out
}

// ShoupRgswCiphertext is an [rgsw.Ciphertext] with every row Shoup-paired.
type ShoupRgswCiphertext struct {
	NegSM [2][]ShoupPoly
	M     [2][]ShoupPoly
}

func newShoupRgsw(ct *rgsw.Ciphertext, q uint64) *ShoupRgswCiphertext {
	return &ShoupRgswCiphertext{
		NegSM: [2][]ShoupPoly{wrapRows(ct.NegSM[0], q), wrapRows(ct.NegSM[1], q)},
		M:     [2][]ShoupPoly{wrapRows(ct.M[0], q), wrapRows(ct.M[1], q)},
	}
}

// ShoupAutoKey is an [rlwe.ExpandedKeySwitchKey] with every row
// Shoup-paired.
type ShoupAutoKey struct {
	A, B []ShoupPoly
}

func newShoupAutoKey(ek *rlwe.ExpandedKeySwitchKey, q uint64) *ShoupAutoKey {
	return &ShoupAutoKey{A: wrapRows(ek.A, q), B: wrapRows(ek.B, q)}
}

// ShoupServerKey is a [ServerKey] with its RGSW ciphertexts and auto
// keys Shoup-paired for reduction-free multiplies. The LWE-KSK is
// carried over unwrapped: its modulus and access pattern don't repay
// the doubled storage (§4.J).
type ShoupServerKey struct {
	RgswCts  []*ShoupRgswCiphertext
	AutoKeys map[uint64]*ShoupAutoKey
	LweKsk   *ServerKey
}

// NewShoupServerKey wraps sk's RGSW ciphertexts and auto keys, leaving
// the LWE-KSK reference to sk itself so callers can still reach it.
func NewShoupServerKey(sk *ServerKey, q uint64) *ShoupServerKey {
	rgswCts := make([]*ShoupRgswCiphertext, len(sk.RgswCts))
	for i, ct := range sk.RgswCts {
		rgswCts[i] = newShoupRgsw(ct, q)
	}

	autoKeys := make(map[uint64]*ShoupAutoKey, len(sk.AutoKeys))
	for k, ek := range sk.AutoKeys {
		autoKeys[k] = newShoupAutoKey(ek, q)
	}

	return &ShoupServerKey{RgswCts: rgswCts, AutoKeys: autoKeys, LweKsk: sk}
}
