package gadget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/boolfhe/ring"
)

func TestDecomposeReconstructsWithinRoundingError(t *testing.T) {
	const q = uint64(576460752308273153)

	g, err := New(q, 5, 10)
	require.NoError(t, err)
	require.Equal(t, 10, g.D())

	xs := []uint64{0, 1, q - 1, q / 2, 123456789, q - 123456789}

	for _, x := range xs {
		digits := g.Decompose(x)
		require.Len(t, digits, g.D())

		var recon uint64
		for j, d := range digits {
			recon = ring.AddMod(recon, ring.MulMod(d, g.Vector[j], q), q)
		}

		diff := centered(ring.SubMod(x, recon, q), q)
		if diff < 0 {
			diff = -diff
		}
		// The rounding error is bounded by half the scale a single kept
		// digit represents.
		require.LessOrEqual(t, uint64(diff), g.delta/2)
	}
}

func TestDecomposeDigitsAreBalanced(t *testing.T) {
	const q = uint64(1152921504606584833)

	g, err := New(q, 7, 2)
	require.NoError(t, err)

	digits := g.Decompose(42)
	for _, d := range digits {
		c := centered(d, q)
		require.LessOrEqual(t, c, int64(g.half))
		require.Greater(t, c, -int64(g.half))
	}
}

func TestNewRejectsOversizedBase(t *testing.T) {
	_, err := New(576460752308273153, 5, 20)
	require.Error(t, err)
}
