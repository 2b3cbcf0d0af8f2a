// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

package ledger

import (
	"github.com/aminovt/solvault/internal/derive"
	"github.com/aminovt/solvault/models"
)

// Authority proves the right to debit a transfer source. Two proofs exist:
// a caller signature already verified at the transport boundary
// ([SignerAuthority]), and a [Capability], the reproduction of the exact
// seed tuple used at derivation time, which substitutes for a private-key
// signature on addresses that have none.
type Authority interface {
	// Covers reports whether the authority authorizes debiting from.
	Covers(from models.Address) bool
}

// SignerAuthority authorizes transfers out of the caller's own account.
// The transport layer has already verified the caller's ed25519 signature
// over the operation payload, so holding the identity is sufficient here.
type SignerAuthority struct {
	Identity models.Address
}

// Covers reports whether from is the signing caller's own address.
func (s SignerAuthority) Covers(from models.Address) bool {
	return s.Identity.Equal(from)
}

// Capability is the program-side proof of control over a derived address:
// the namespace, seed and bump that produced it. Re-deriving the address
// from these inputs and matching it against the transfer source proves the
// ledger engine (and nobody else, since the address is off-curve) controls it.
type Capability struct {
	Namespace derive.Namespace
	Seed      []byte
	Bump      uint8
}

// Covers re-derives the capability's address and compares it to from.
// A capability whose bump produces an on-curve candidate covers nothing.
func (c Capability) Covers(from models.Address) bool {
	addr, err := derive.At(c.Namespace, c.Seed, c.Bump)
	if err != nil {
		return false
	}
	return addr.Equal(from)
}

// VerifyAuthority is the shared guard used by balance-book implementations:
// it returns [ErrUnauthorizedTransfer] unless auth covers from.
func VerifyAuthority(auth Authority, from models.Address) error {
	if auth == nil || !auth.Covers(from) {
		return ErrUnauthorizedTransfer
	}
	return nil
}
