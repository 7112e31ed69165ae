// Package gadget implements the signed-balanced base-beta decomposer the
// external and internal products decompose ring elements with. It
// mirrors the teacher's DigitDecomposition's SignedBalanced variant
// (signed digits in (-beta/2, beta/2], optimal error) at the single
// digit count and base the gadget vector fixes.
package gadget

import (
	"fmt"
	"math/big"

	"github.com/latticefhe/boolfhe/ring"
)

// Decomposer is the external collaborator the external/internal product
// and the auto/KSK generators consume: a deterministic, stateless
// decomposition of one ring coefficient into d signed base-beta digits.
type Decomposer interface {
	Decompose(x uint64) []uint64
	D() int
}

// Gadget holds the base-beta, count-d decomposer for a modulus Q. Only
// the top D digits of a coefficient's value are kept; the rest is
// rounded away, which is what keeps D below ceil(log2(Q)/LogB) and
// bounds the gadget vector's memory footprint.
type Gadget struct {
	Q     uint64
	LogB  int
	Count int

	base  uint64
	delta uint64 // round(Q / base^Count): the scale a kept digit represents
	half  uint64 // base/2, for centering digits into (-base/2, base/2]

	Vector []uint64 // g[j] = delta * base^j mod Q, j = 0..Count-1
}

// New builds a [Gadget] for base 2^logB, digit count d, modulus q. It
// fails with an error if logB*d exceeds 62 bits or base^d is not
// smaller than q.
func New(q uint64, logB, d int) (*Gadget, error) {
	if logB <= 0 || d <= 0 {
		return nil, fmt.Errorf("gadget: logB=%d and d=%d must be positive", logB, d)
	}
	if logB*d > 62 {
		return nil, fmt.Errorf("gadget: logB*d=%d overflows the 62-bit range this package supports", logB*d)
	}

	base := uint64(1) << uint(logB)

	baseToD := new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(d)), nil)
	if baseToD.Cmp(new(big.Int).SetUint64(q)) >= 0 {
		return nil, fmt.Errorf("gadget: base^d=%s must be smaller than q=%d", baseToD.String(), q)
	}

	qBig := new(big.Int).SetUint64(q)
	deltaBig := new(big.Int).Div(qBig, baseToD) // floor(q / base^d), rounded via +half below
	half := new(big.Int).Rsh(baseToD, 1)
	if new(big.Int).Mod(qBig, baseToD).Cmp(half) >= 0 {
		deltaBig.Add(deltaBig, big.NewInt(1))
	}
	delta := deltaBig.Uint64()

	g := &Gadget{
		Q:     q,
		LogB:  logB,
		Count: d,
		base:  base,
		delta: delta,
		half:  base / 2,
	}

	g.Vector = make([]uint64, d)
	pow := delta % q
	for j := 0; j < d; j++ {
		g.Vector[j] = pow
		pow = ring.MulMod(pow, base, q)
	}

	return g, nil
}

// D returns the digit count.
func (g *Gadget) D() int {
	return g.Count
}

// Decompose returns the D signed base-beta digits of x, each reduced
// mod Q (negative digits represented as Q - |digit|), such that
// delta * sum(digit_j * base^j) approximates x mod Q.
func (g *Gadget) Decompose(x uint64) []uint64 {
	signed := centered(x, g.Q)

	// t = round(x / delta), the rounded top Count*LogB bits of x.
	t := roundDiv(signed, int64(g.delta))

	digits := make([]uint64, g.Count)
	base := int64(g.base)
	half := int64(g.half)

	for j := 0; j < g.Count; j++ {
		d := t % base
		if d > half {
			d -= base
		} else if d < -half {
			d += base
		}
		t = (t - d) / base
		digits[j] = toRing(d, g.Q)
	}

	return digits
}

// centered reinterprets x in [0, q) as a signed residue in (-q/2, q/2].
func centered(x, q uint64) int64 {
	if x > q>>1 {
		return int64(x) - int64(q)
	}
	return int64(x)
}

// toRing reduces a small signed digit into [0, q).
func toRing(d int64, q uint64) uint64 {
	if d < 0 {
		return q - uint64(-d)
	}
	return uint64(d)
}

// roundDiv returns the nearest integer to a/b (b > 0), rounding half away
// from zero.
func roundDiv(a, b int64) int64 {
	if a >= 0 {
		return (a + b/2) / b
	}
	return -((-a + b/2) / b)
}
