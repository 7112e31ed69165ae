// Package rlwe implements the RLWE encryption scheme of §4.D, the
// KSK/auto-key generator of §4.F and the Galois automorphism operator
// of §4.I, plus the Parameters external collaborator of §6.
package rlwe

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/latticefhe/boolfhe/gadget"
	"github.com/latticefhe/boolfhe/ring"
)

// GadgetParams names the base and digit count a gadget-decomposed key
// uses; §6 requires one of these per {auto, rlwe-rgsw, lwe-ksk,
// non-interactive ui->s}.
type GadgetParams struct {
	LogB int
	D    int
}

// ParametersLiteral is the plain, user-supplied description of a
// parameter set. [NewParametersFromLiteral] validates and freezes it
// into a [Parameters] value.
type ParametersLiteral struct {
	RlweN int
	RlweQ uint64

	LweN int
	LweQ uint64

	Auto           GadgetParams
	RlweRgsw       GadgetParams
	LweKsk         GadgetParams
	NonInteractive GadgetParams

	GaloisGenerator uint64
	GaloisElements  []uint64

	// ErrorSigma/ErrorBound parameterize the discrete Gaussian error:
	// truncated at ErrorBound standard deviations.
	ErrorSigma float64
	ErrorBound float64
}

// Parameters is an immutable, validated parameter set.
type Parameters struct {
	lit ParametersLiteral

	ringQ *ring.Ring

	autoGadget     *gadget.Gadget
	rlweRgswGadget *gadget.Gadget
	lweKskGadget   *gadget.Gadget
	niGadget       *gadget.Gadget

	galoisElements []uint64
}

// NewParametersFromLiteral validates lit and builds the ring and gadget
// state every component needs.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {
	if lit.LweN <= 0 {
		return Parameters{}, fmt.Errorf("rlwe: lwe_n must be positive, got %d", lit.LweN)
	}
	if lit.GaloisGenerator&1 == 0 {
		return Parameters{}, fmt.Errorf("rlwe: galois generator must be odd, got %d", lit.GaloisGenerator)
	}

	ringQ, err := ring.NewRing(lit.RlweN, lit.RlweQ)
	if err != nil {
		return Parameters{}, fmt.Errorf("rlwe: %w", err)
	}

	autoGadget, err := gadget.New(lit.RlweQ, lit.Auto.LogB, lit.Auto.D)
	if err != nil {
		return Parameters{}, fmt.Errorf("rlwe: auto gadget: %w", err)
	}
	rlweRgswGadget, err := gadget.New(lit.RlweQ, lit.RlweRgsw.LogB, lit.RlweRgsw.D)
	if err != nil {
		return Parameters{}, fmt.Errorf("rlwe: rlwe-rgsw gadget: %w", err)
	}
	lweKskGadget, err := gadget.New(lit.LweQ, lit.LweKsk.LogB, lit.LweKsk.D)
	if err != nil {
		return Parameters{}, fmt.Errorf("rlwe: lwe-ksk gadget: %w", err)
	}
	var niGadget *gadget.Gadget
	if lit.NonInteractive.D > 0 {
		if niGadget, err = gadget.New(lit.RlweQ, lit.NonInteractive.LogB, lit.NonInteractive.D); err != nil {
			return Parameters{}, fmt.Errorf("rlwe: non-interactive gadget: %w", err)
		}
	}

	galoisElements := append([]uint64(nil), lit.GaloisElements...)
	slices.Sort(galoisElements)
	galoisElements = slices.Compact(galoisElements)

	return Parameters{
		lit:            lit,
		ringQ:          ringQ,
		autoGadget:     autoGadget,
		rlweRgswGadget: rlweRgswGadget,
		lweKskGadget:   lweKskGadget,
		niGadget:       niGadget,
		galoisElements: galoisElements,
	}, nil
}

// RingQ returns the RLWE ring.
func (p Parameters) RingQ() *ring.Ring { return p.ringQ }

// N returns the RLWE ring degree.
func (p Parameters) N() int { return p.lit.RlweN }

// Q returns the RLWE modulus.
func (p Parameters) Q() uint64 { return p.lit.RlweQ }

// LweN returns the LWE dimension.
func (p Parameters) LweN() int { return p.lit.LweN }

// LweQ returns the LWE modulus.
func (p Parameters) LweQ() uint64 { return p.lit.LweQ }

// AutoGadget returns the decomposer used by auto-key generation.
func (p Parameters) AutoGadget() *gadget.Gadget { return p.autoGadget }

// RlweRgswGadget returns the decomposer used by RLWE-RGSW encryption and
// the external/internal product.
func (p Parameters) RlweRgswGadget() *gadget.Gadget { return p.rlweRgswGadget }

// LweKskGadget returns the decomposer used by the LWE key-switch key.
func (p Parameters) LweKskGadget() *gadget.Gadget { return p.lweKskGadget }

// NonInteractiveGadget returns the decomposer used by the
// non-interactive user-to-ideal key-switch keys, if configured.
func (p Parameters) NonInteractiveGadget() *gadget.Gadget { return p.niGadget }

// GaloisGenerator returns g, the generator of the Galois group mod 2N.
func (p Parameters) GaloisGenerator() uint64 { return p.lit.GaloisGenerator }

// GaloisElements returns the sorted, deduplicated set of Galois elements
// required by the parameter set. Iteration over this slice is the
// module's one source of truth for draw order (§4.J, §9).
func (p Parameters) GaloisElements() []uint64 { return p.galoisElements }

// ErrorSigma returns the error distribution's standard deviation.
func (p Parameters) ErrorSigma() float64 { return p.lit.ErrorSigma }

// ErrorBound returns the error distribution's truncation bound, in
// units of ErrorSigma.
func (p Parameters) ErrorBound() float64 { return p.lit.ErrorBound }

// Delta returns round(Q/P), the scaling factor for a P-ary message.
func (p Parameters) Delta(P uint64) uint64 {
	q := p.lit.RlweQ
	d := q / P
	if (q%P)*2 >= P {
		d++
	}
	return d
}

// Encode scales bits (each < P) by Delta(P) into a coefficient-domain
// plaintext polynomial.
func (p Parameters) Encode(bits []uint64, P uint64) ring.Poly {
	delta := p.Delta(P)
	m := p.ringQ.NewPoly()
	for i, b := range bits {
		m.Coeffs[i] = ring.MulMod(b%P, delta, p.lit.RlweQ)
	}
	return m
}

// Decode rounds a decrypted coefficient-domain polynomial mPrime back to
// P-ary digits.
func (p Parameters) Decode(mPrime ring.Poly, P uint64) []uint64 {
	delta := p.Delta(P)
	out := make([]uint64, len(mPrime.Coeffs))
	for i, c := range mPrime.Coeffs {
		// round(c / delta) mod P, computed on centered c to round
		// correctly across the q/2 wraparound.
		signed := p.ringQ.CenteredMod(c)
		v := roundDivSigned(signed, int64(delta))
		v %= int64(P)
		if v < 0 {
			v += int64(P)
		}
		out[i] = uint64(v)
	}
	return out
}

func roundDivSigned(a, b int64) int64 {
	if a >= 0 {
		return (a + b/2) / b
	}
	return -((-a + b/2) / b)
}
