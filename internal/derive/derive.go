// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

// Package derive implements deterministic address derivation for vaults.
//
// Every owner identity maps to a pair of derived addresses without any
// stored index: the state record address is seeded by the owner key, the
// vault address is seeded by the state address. An address candidate is
// the SHA-256 digest of (namespace ‖ seed ‖ bump ‖ domain separator); a
// candidate is accepted only when it is NOT a valid ed25519 curve point,
// which guarantees no private key exists for it and the address can only
// be controlled by the ledger engine itself.
package derive

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/aminovt/solvault/models"
)

// Namespace is the short byte tag that separates the two derivation
// domains. Using distinct tags keeps state and vault addresses disjoint
// even for identical seed material.
type Namespace []byte

var (
	// NamespaceState seeds the VaultState record address from the owner key.
	NamespaceState = Namespace("state")

	// NamespaceVault seeds the vault balance address from the state address.
	NamespaceVault = Namespace("vault")
)

// domainSeparator is appended to every candidate preimage so derived
// addresses can never collide with digests computed elsewhere over the
// same namespace and seed bytes.
var domainSeparator = []byte("SolvaultDerivedAddress")

// MaxBump is the first bump value tried by [Find]. The search walks
// downward to 0, matching the original program's runtime order, so a
// stored bump always re-derives the same address.
const MaxBump = 255

// At computes the derived address for an explicit bump value.
//
// It returns [ErrAddressOnCurve] if the candidate digest decodes as a
// valid ed25519 point: such an address could have a private key and must
// never be accepted as program-controlled. Callers holding a bump written
// at initialization use At to re-derive and verify addresses.
func At(ns Namespace, seed []byte, bump uint8) (models.Address, error) {
	h := sha256.New()
	h.Write(ns)
	h.Write(seed)
	h.Write([]byte{bump})
	h.Write(domainSeparator)

	candidate, err := models.AddressFromBytes(h.Sum(nil))
	if err != nil {
		return models.Address{}, err
	}

	if onCurve(candidate) {
		return models.Address{}, ErrAddressOnCurve
	}

	return candidate, nil
}

// Find searches bump values from [MaxBump] downward and returns the first
// off-curve candidate together with the bump that produced it.
//
// Same inputs always yield the same (address, bump). Distinct owners
// collide only with negligible probability (SHA-256 collision resistance).
// Exhausting the whole bump range returns [ErrDerivationExhausted]; with
// roughly half of all digests off-curve this is unreachable in practice,
// but it is modeled so callers never observe a zero address.
func Find(ns Namespace, seed []byte) (models.Address, uint8, error) {
	for bump := MaxBump; bump >= 0; bump-- {
		addr, err := At(ns, seed, uint8(bump))
		if err == nil {
			return addr, uint8(bump), nil
		}
	}

	return models.Address{}, 0, ErrDerivationExhausted
}

// FindState derives the VaultState record address for an owner.
func FindState(owner models.Address) (models.Address, uint8, error) {
	return Find(NamespaceState, owner.Bytes())
}

// FindVault derives the vault balance address for a state record address.
func FindVault(state models.Address) (models.Address, uint8, error) {
	return Find(NamespaceVault, state.Bytes())
}

// StateAt re-derives the VaultState record address from a stored bump.
func StateAt(owner models.Address, bump uint8) (models.Address, error) {
	return At(NamespaceState, owner.Bytes(), bump)
}

// VaultAt re-derives the vault balance address from a stored bump.
func VaultAt(state models.Address, bump uint8) (models.Address, error) {
	return At(NamespaceVault, state.Bytes(), bump)
}

// onCurve reports whether the 32-byte address decodes as a canonical
// ed25519 curve point, i.e. whether a private key could exist for it.
func onCurve(addr models.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}
