package derive

import "errors"

// Sentinel errors returned by the derivation engine. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrAddressOnCurve is returned by [At] when the candidate for the
	// given bump decodes as a valid ed25519 point. A bump that produces an
	// on-curve candidate is never valid, so a stored bump failing this way
	// indicates a corrupt or forged record.
	ErrAddressOnCurve = errors.New("derived address is on the ed25519 curve")

	// ErrDerivationExhausted is returned by [Find] when no bump in
	// [MaxBump]..0 yields an off-curve address. Practically unreachable.
	ErrDerivationExhausted = errors.New("derivation bump space exhausted")
)
