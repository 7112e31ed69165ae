package ring

import (
	"math"

	"github.com/latticefhe/boolfhe/sampling"
)

// RandomGaussianDist is the external collaborator producing the small
// error terms e in RLWE/RGSW encryption.
type RandomGaussianDist interface {
	ReadGaussian(q uint64, out []uint64)
}

// GaussianSampler draws a truncated discrete Gaussian with standard
// deviation Sigma, rejecting draws beyond Bound standard deviations.
type GaussianSampler struct {
	*sampling.Source
	Sigma float64
	Bound float64
}

// NewGaussianSampler wraps source as a [GaussianSampler] with the given
// standard deviation and truncation bound (in units of Sigma).
func NewGaussianSampler(source *sampling.Source, sigma, bound float64) *GaussianSampler {
	return &GaussianSampler{Source: source, Sigma: sigma, Bound: bound}
}

// ReadGaussian fills out with samples from the truncated discrete
// Gaussian, reduced mod q.
func (g *GaussianSampler) ReadGaussian(q uint64, out []uint64) {
	for i := range out {
		out[i] = g.sampleOne(q)
	}
}

func (g *GaussianSampler) sampleOne(q uint64) uint64 {
	limit := g.Sigma * g.Bound
	for {
		x := g.Sigma * g.normalFloat()
		if x > -limit && x <= limit {
			v := math.Round(x)
			if v < 0 {
				return q - uint64(-v)%q
			}
			return uint64(v) % q
		}
	}
}

// normalFloat draws one standard-normal sample via the Box-Muller
// transform, fed by two uniform draws from the underlying Source.
func (g *GaussianSampler) normalFloat() float64 {
	u1 := g.uniformUnit()
	for u1 == 0 {
		u1 = g.uniformUnit()
	}
	u2 := g.uniformUnit()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// uniformUnit draws a uniform float64 in [0, 1) from 53 bits of entropy.
func (g *GaussianSampler) uniformUnit() float64 {
	const mantissaBits = 53
	return float64(g.Uint64()>>(64-mantissaBits)) / float64(uint64(1)<<mantissaBits)
}
