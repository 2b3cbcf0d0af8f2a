package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT token with convenience accessors for the session flow.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry, etc.).
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers.
//
// Identity is a cached, parsed copy of the "sub" (subject) claim decoded
// from its base58 form. It is populated during token construction or after
// a successful call to [Token.GetIdentity].
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string form
	// is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	// Excluded from JSON serialization; use [Token.String] to retrieve it.
	SignedString string `json:"-"`

	// Identity is the owner public key extracted from the "sub" claim.
	// Excluded from JSON serialization; it is an internal server-side cache.
	Identity Address `json:"-"`
}

// GetIdentity extracts the caller identity from the token's "sub" (subject)
// claim, decodes it from base58, and returns the result.
//
// Returns an error if the subject claim is missing, empty, or is not a
// valid base58-encoded 32-byte address.
func (t *Token) GetIdentity() (Address, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return Address{}, fmt.Errorf("error extracting identity from token: %w", err)
	}

	identity, err := ParseAddress(subject)
	if err != nil {
		return Address{}, fmt.Errorf("error decoding identity from token subject: %w", err)
	}

	return identity, nil
}

// String returns the compact JWS serialization of the token
// (the signed, base64url-encoded header.payload.signature string).
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
