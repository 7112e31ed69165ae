package lwe

// Ciphertext is a plain LWE ciphertext over Z_q: b = <a, s> + m + e.
type Ciphertext struct {
	A []uint64
	B uint64
}

// NewCiphertext allocates a zeroed ciphertext of dimension n.
func NewCiphertext(n int) *Ciphertext {
	return &Ciphertext{A: make([]uint64, n)}
}
