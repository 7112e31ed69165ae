// Package evk assembles the evaluation-domain server key (§3, §6's
// MODULE J): the RGSW ciphertexts, auto keys and LWE-KSK a bootstrap
// consumes, plus their seeded wire form and deterministic expansion.
package evk

import (
	"github.com/latticefhe/boolfhe/lwe"
	"github.com/latticefhe/boolfhe/rgsw"
	"github.com/latticefhe/boolfhe/rlwe"
)

// ServerKey holds the evaluation-domain key material behind the PbsKey
// contract: one RGSW ciphertext per LWE-secret coordinate, one auto key
// per required Galois element, and the LWE-KSK.
type ServerKey struct {
	RgswCts  []*rgsw.Ciphertext
	AutoKeys map[uint64]*rlwe.ExpandedKeySwitchKey
	LweKsk   *lwe.KeySwitchKey
}

// PbsKey is the key contract the bootstrap's blind rotation and
// sample-extraction key switch consume (§6).
type PbsKey interface {
	GaloisKeyForAuto(k uint64) *rlwe.ExpandedKeySwitchKey
	RgswCtLweSi(i int) *rgsw.Ciphertext
	LweKeySwitchKey() *lwe.KeySwitchKey
}

func (sk *ServerKey) GaloisKeyForAuto(k uint64) *rlwe.ExpandedKeySwitchKey {
	return sk.AutoKeys[k]
}

func (sk *ServerKey) RgswCtLweSi(i int) *rgsw.Ciphertext {
	return sk.RgswCts[i]
}

func (sk *ServerKey) LweKeySwitchKey() *lwe.KeySwitchKey {
	return sk.LweKsk
}

var _ PbsKey = (*ServerKey)(nil)
