package ring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/boolfhe/sampling"
)

func testRing(t *testing.T, N int, Q uint64) *Ring {
	r, err := NewRing(N, Q)
	require.NoError(t, err)
	return r
}

func TestNTTRoundTrip(t *testing.T) {
	r := testRing(t, 16, 576460752308273153)

	source := sampling.NewSource(sampling.NewSeed())
	u := NewUniformSampler(source)

	p := r.NewPoly()
	r.Read(u, p)

	want := p.CopyNew()

	r.Forward(p.Coeffs)
	r.Backward(p.Coeffs)

	require.True(t, want.Equal(p))
}

func TestNTTIsMultiplicative(t *testing.T) {
	r := testRing(t, 16, 576460752308273153)

	source := sampling.NewSource(sampling.NewSeed())
	u := NewUniformSampler(source)

	a, b := r.NewPoly(), r.NewPoly()
	r.Read(u, a)
	r.Read(u, b)

	aEval, bEval := a.CopyNew(), b.CopyNew()
	r.Forward(aEval.Coeffs)
	r.Forward(bEval.Coeffs)

	prodEval := r.NewPoly()
	r.MulCoeffs(aEval.Coeffs, bEval.Coeffs, prodEval.Coeffs)
	r.Backward(prodEval.Coeffs)

	// Naive negacyclic convolution as a cross-check.
	want := make([]uint64, r.N)
	for i := 0; i < r.N; i++ {
		for j := 0; j < r.N; j++ {
			k := i + j
			v := MulMod(a.Coeffs[i], b.Coeffs[j], r.Q)
			if k >= r.N {
				v = NegMod(v, r.Q)
				k -= r.N
			}
			want[k] = AddMod(want[k], v, r.Q)
		}
	}

	require.Equal(t, want, prodEval.Coeffs)
}

func TestGenerateAutoMapIdentity(t *testing.T) {
	idx, sign := GenerateAutoMap(16, 1)
	for i := range idx {
		require.Equal(t, i, idx[i])
		require.True(t, sign[i])
	}
}

func TestGenerateAutoMapNegativeK(t *testing.T) {
	N := 16
	idxPos, signPos := GenerateAutoMap(N, 2*N-5)
	idxNeg, signNeg := GenerateAutoMap(N, -5)
	require.Equal(t, idxPos, idxNeg)
	require.Equal(t, signPos, signNeg)
}

func TestShoupMatchesPlainMultiply(t *testing.T) {
	moduli := []uint64{576460752308273153, 1152921504606584833}

	for _, q := range moduli {
		source := sampling.NewSource(sampling.NewSeed())
		u := NewUniformSampler(source)

		buf := make([]uint64, 256)
		u.ReadUniform(q, buf)

		for _, w := range buf[:16] {
			sh := NewShoup(w, q)
			for _, x := range buf {
				require.Equal(t, MulMod(w, x, q), MulShoup(sh.Normal, sh.Shoup, x, q))
			}
		}
	}
}

func TestTernarySamplerExactHammingWeight(t *testing.T) {
	N, h := 64, 20
	q := uint64(576460752308273153)

	source := sampling.NewSource(sampling.NewSeed())
	ts := NewTernarySampler(source)

	coeffs := make([]uint64, N)
	ts.ReadSparse(coeffs, h, q)

	nonZero := 0
	for _, c := range coeffs {
		if c != 0 {
			require.True(t, c == 1 || c == q-1)
			nonZero++
		}
	}
	require.Equal(t, h, nonZero)
}
