package mhe

import (
	"github.com/latticefhe/boolfhe/evk"
	"github.com/latticefhe/boolfhe/rgsw"
	"github.com/latticefhe/boolfhe/rlwe"
)

// AggregateNonInteractiveServerKeyShares combines §5's non-interactive
// round-two shares into a server key ready for bootstrapping.
//
// keyShares are the same auto-key/LWE-KSK shares [GenMultiPartyServerKeyShare]
// produces: each user's rlweShare there is that user's u_i, since u_i
// plays the same additive-share-of-the-ideal-secret role for auto keys
// and the LWE-KSK in non-interactive mode that it does in interactive
// mode. Only RGSW ciphertext generation differs between the two modes,
// which is why niShares (one [NonInteractiveServerKeyShare] per user,
// in the same order as keyShares) carries them separately, each tagged
// with the u_i -> s key-switch key needed to bring them onto the ideal
// secret before they can sit next to the aggregated auto keys.
func AggregateNonInteractiveServerKeyShares(params rlwe.Parameters, keyShares []*MultiPartyServerKeyShare, niShares []*NonInteractiveServerKeyShare) (*evk.ServerKey, error) {
	if len(keyShares) != len(niShares) {
		return nil, newError(InconsistentShares, "mhe: aggregate non-interactive: %d auto/lwe-ksk shares but %d rgsw shares", len(keyShares), len(niShares))
	}

	seeded, err := AggregateMultiPartyServerKeyShares(keyShares)
	if err != nil {
		return nil, err
	}
	expanded := seeded.Expand()

	var rgswCts []*rgsw.Ciphertext
	for i, share := range niShares {
		for j, ct := range share.RgswCts {
			switched, err := KeySwitchRgswToIdeal(params, ct, share.UiToS)
			if err != nil {
				return nil, newError(InvalidParameter, "mhe: aggregate non-interactive: user %d rgsw ct %d: %v", i, j, err)
			}
			rgswCts = append(rgswCts, switched)
		}
	}

	return &evk.ServerKey{
		RgswCts:  rgswCts,
		AutoKeys: expanded.AutoKeys,
		LweKsk:   expanded.LweKsk,
	}, nil
}
