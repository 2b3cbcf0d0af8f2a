package utils

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/aminovt/solvault/models"
	"github.com/mr-tron/base58"
)

var (
	// ErrSignatureInvalid reports that a signature did not verify against
	// the claimed identity and payload.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrSignatureMalformed reports that a signature could not be decoded
	// from its wire form.
	ErrSignatureMalformed = errors.New("malformed signature")
)

// VerifySignature checks the base58-encoded ed25519 signature over payload
// against the given identity public key.
//
// Returns nil when the signature is valid, ErrSignatureMalformed when the
// signature cannot be decoded or has the wrong length, and
// ErrSignatureInvalid when verification fails.
func VerifySignature(identity models.Address, payload []byte, signature string) error {
	raw, err := base58.Decode(signature)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureMalformed, err)
	}
	if len(raw) != ed25519.SignatureSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrSignatureMalformed, ed25519.SignatureSize, len(raw))
	}

	if !ed25519.Verify(ed25519.PublicKey(identity.Bytes()), payload, raw) {
		return ErrSignatureInvalid
	}

	return nil
}

// SignPayload signs payload with the given ed25519 private key and returns
// the signature in its base58 wire form.
func SignPayload(privateKey ed25519.PrivateKey, payload []byte) string {
	return base58.Encode(ed25519.Sign(privateKey, payload))
}
