// Package sampling provides the keyed CSPRNG used throughout the module
// to turn a short seed into a deterministic stream of uniform bytes.
//
// It is the concrete backend for the spec's RandomFillUniformInModulus /
// RandomGaussianDist / RandomFill collaborators: any two [Source] values
// created from the same seed produce byte-for-byte identical streams,
// which is what lets seeded keys (§4.J) be re-expanded deterministically.
package sampling

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Seed is the public material a party transmits in place of the random
// polynomials it would otherwise have to send in full.
type Seed [32]byte

// NewSeed draws a fresh seed from the operating system's CSPRNG.
func NewSeed() Seed {
	var s Seed
	if _, err := io.ReadFull(rand.Reader, s[:]); err != nil {
		// crypto/rand.Reader failing indicates the OS entropy source
		// is unavailable; there is no sane fallback.
		panic(fmt.Errorf("sampling: cannot read entropy: %w", err))
	}
	return s
}

// Source is a keyed extendable-output stream: the same seed always
// replays the same sequence of Read/Uint64 calls, in the same order.
//
// The XOF is blake2b keyed in XOF mode, following the blake2b-keyed CRS
// construction used elsewhere in the lattice-crypto ecosystem for
// collective / common-reference-string randomness.
type Source struct {
	seed Seed
	xof  blake2b.XOF
}

// NewSource creates a Source keyed on seed. Two Sources built from an
// equal seed are independent clocks over an identical byte stream.
func NewSource(seed Seed) *Source {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, seed[:])
	if err != nil {
		// Sanity check, this error should not happen: seed is always
		// <= 64 bytes, the maximum blake2b key size.
		panic(fmt.Errorf("sampling: cannot key XOF: %w", err))
	}
	return &Source{seed: seed, xof: xof}
}

// Seed returns the seed this Source was created from.
func (s *Source) Seed() Seed {
	return s.seed
}

// Read fills p with the next len(p) bytes of the stream. It never
// returns a short read or an error; io.Reader is satisfied for
// interoperability with utilities that expect it.
func (s *Source) Read(p []byte) (int, error) {
	n, err := s.xof.Read(p)
	if err != nil {
		panic(fmt.Errorf("sampling: XOF read: %w", err))
	}
	return n, nil
}

// Uint64 draws 8 bytes from the stream and interprets them big-endian.
func (s *Source) Uint64() uint64 {
	var b [8]byte
	_, _ = s.Read(b[:])
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

// Reset rewinds the stream to its first byte, replaying from the start.
func (s *Source) Reset() {
	s.xof.Reset()
}

// Fork derives an independent child Source from the next 32 bytes of
// the stream. Used to split one seed into several independent draw
// sequences (e.g. one per auto-key index) without entangling them.
func (s *Source) Fork() *Source {
	var sub Seed
	_, _ = s.Read(sub[:])
	return NewSource(sub)
}
