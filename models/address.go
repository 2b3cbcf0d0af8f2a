// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressLength is the byte length of every derived address and owner
// identity. Addresses share the ed25519 public-key space so that the
// off-curve property of derived addresses is meaningful.
const AddressLength = 32

// Address is a 32-byte account identifier. Owner identities are valid
// ed25519 public keys; derived vault/state addresses are deliberately
// off-curve and therefore have no corresponding private key.
type Address [AddressLength]byte

// AddressFromBytes copies b into an Address.
// Returns an error if b is not exactly [AddressLength] bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, fmt.Errorf("invalid address length: got %d, want %d", len(b), AddressLength)
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes the base58 text form produced by [Address.String].
func ParseAddress(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid base58 address: %w", err)
	}
	return AddressFromBytes(raw)
}

// Bytes returns a copy of the raw 32-byte representation.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsZero reports whether the address is the all-zero value, which is never
// a legitimate owner identity or derived address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Equal reports byte equality of two addresses in constant structure
// (plain comparison; addresses are public values).
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

// String returns the base58 text form used on the wire and as the
// primary key in the accounts and vault_states tables.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// MarshalJSON encodes the address as a base58 JSON string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a base58 JSON string into the address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
