package ring

import "math/bits"

// Shoup is the (normal, shoup) companion pair described in the data
// model: Normal is x, Shoup is floor(x * 2^64 / q). Pairing every
// evaluation-domain key coefficient with its Shoup form lets the hot
// external-product multiply skip the 128-bit reduction.
type Shoup struct {
	Normal uint64
	Shoup  uint64
}

// ComputeShoup returns the Shoup precomputation for x modulo q, i.e.
// floor(x * 2^64 / q). x must already be reduced mod q, which keeps the
// dividend's high word below q and so within bits.Div64's domain.
func ComputeShoup(x, q uint64) uint64 {
	quo, _ := bits.Div64(x, 0, q)
	return quo
}

// NewShoup builds the companion pair for x modulo q.
func NewShoup(x, q uint64) Shoup {
	return Shoup{Normal: x, Shoup: ComputeShoup(x, q)}
}

// MulShoup returns w*x mod q given w's precomputed Shoup form, without
// a 128-bit division: it estimates the quotient from the high word of
// wShoup*x and corrects with at most one conditional subtraction.
func MulShoup(w, wShoup, x, q uint64) uint64 {
	qHat, _ := bits.Mul64(wShoup, x)
	lo := w * x
	res := lo - qHat*q
	if res >= q {
		res -= q
	}
	return res
}
