package ring

import "github.com/latticefhe/boolfhe/sampling"

// RandomFillUniformInModulus is the external collaborator that fills a
// slice with coefficients drawn uniformly from [0, Q).
type RandomFillUniformInModulus interface {
	ReadUniform(q uint64, out []uint64)
}

// UniformSampler draws uniformly random ring elements from a Source,
// via rejection sampling against the smallest power-of-two mask that
// covers Q.
type UniformSampler struct {
	*sampling.Source
}

// NewUniformSampler wraps source as a [UniformSampler].
func NewUniformSampler(source *sampling.Source) *UniformSampler {
	return &UniformSampler{Source: source}
}

// ReadUniform fills out with len(out) coefficients uniform in [0, q).
func (u *UniformSampler) ReadUniform(q uint64, out []uint64) {
	mask := maskFor(q)
	for i := range out {
		v := u.Uint64() & mask
		for v >= q {
			v = u.Uint64() & mask
		}
		out[i] = v
	}
}

// Read fills pol.Coeffs with coefficients uniform in [0, r.Q).
func (r *Ring) Read(u *UniformSampler, pol Poly) {
	u.ReadUniform(r.Q, pol.Coeffs)
}

func maskFor(q uint64) uint64 {
	if q == 0 {
		return 0
	}
	n := uint64(1)
	for n < q {
		n <<= 1
	}
	return n - 1
}
