package ring

import (
	"math/big"
	"math/bits"
)

// MulMod returns a*b mod q for a, b < q < 2^64.
//
// Because q < 2^64, the 128-bit product x = a*b satisfies hi = x>>64 < q,
// so bits.Div64(hi, lo, q) never overflows and the division is exact: no
// Montgomery or Barrett approximation is needed at this word size.
func MulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, q)
	return rem
}

// AddMod returns a+b mod q for a, b < q.
func AddMod(a, b, q uint64) uint64 {
	s := a + b
	if s >= q {
		s -= q
	}
	return s
}

// SubMod returns a-b mod q for a, b < q.
func SubMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}

// NegMod returns -a mod q for a < q.
func NegMod(a, q uint64) uint64 {
	if a == 0 {
		return 0
	}
	return q - a
}

// ModExp returns x^e mod q.
func ModExp(x, e, q uint64) uint64 {
	y := uint64(1) % q
	x %= q
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			y = MulMod(y, x, q)
		}
		x = MulMod(x, x, q)
	}
	return y
}

// IsPrime reports whether q is prime, via math/big's probabilistic test.
func IsPrime(q uint64) bool {
	return new(big.Int).SetUint64(q).ProbablyPrime(32)
}

// factorize returns the distinct prime factors of m using trial division
// against small primes followed by Pollard's rho for the cofactor. Good
// enough for the q-1 values this package deals with (q is at most ~62
// bits and is chosen to be NTT-friendly, so q-1 tends to have a large
// power-of-two factor plus a handful of small odd ones).
func factorize(m uint64) []uint64 {
	factors := map[uint64]struct{}{}

	for _, p := range []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31} {
		for m%p == 0 {
			factors[p] = struct{}{}
			m /= p
		}
	}

	if m == 1 {
		out := make([]uint64, 0, len(factors))
		for p := range factors {
			out = append(out, p)
		}
		return out
	}

	stack := []uint64{m}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n == 1 {
			continue
		}
		if IsPrime(n) {
			factors[n] = struct{}{}
			continue
		}
		d := pollardRho(n)
		stack = append(stack, d, n/d)
	}

	out := make([]uint64, 0, len(factors))
	for p := range factors {
		out = append(out, p)
	}
	return out
}

// pollardRho finds a non-trivial factor of the composite n.
func pollardRho(n uint64) uint64 {
	if n%2 == 0 {
		return 2
	}

	nBig := new(big.Int).SetUint64(n)

	for c := int64(1); ; c++ {
		f := func(x *big.Int) *big.Int {
			x.Mul(x, x)
			x.Add(x, big.NewInt(c))
			x.Mod(x, nBig)
			return x
		}

		x := big.NewInt(2)
		y := big.NewInt(2)
		d := big.NewInt(1)
		tmp := new(big.Int)

		for d.Cmp(big.NewInt(1)) == 0 {
			x = f(new(big.Int).Set(x))
			y = f(new(big.Int).Set(y))
			y = f(new(big.Int).Set(y))

			tmp.Sub(x, y)
			tmp.Abs(tmp)
			if tmp.Sign() == 0 {
				d.SetUint64(n)
				break
			}
			d.GCD(nil, nil, tmp, nBig)
		}

		if d.Cmp(big.NewInt(1)) != 0 && d.Cmp(nBig) != 0 {
			return d.Uint64()
		}
	}
}

// PrimitiveRoot returns the smallest primitive root of the prime q.
func PrimitiveRoot(q uint64) uint64 {
	factors := factorize(q - 1)

	for g := uint64(2); ; g++ {
		isRoot := true
		for _, f := range factors {
			if ModExp(g, (q-1)/f, q) == 1 {
				isRoot = false
				break
			}
		}
		if isRoot {
			return g
		}
	}
}
