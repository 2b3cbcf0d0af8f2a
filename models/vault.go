package models

import "time"

// StateDiscriminatorSize is the fixed storage tag the persistence layer
// prepends to every VaultState record. Opaque to the ledger core; it only
// participates in rent sizing.
const StateDiscriminatorSize = 8

// StatePayloadSize is the logical payload of a VaultState record:
// one byte for each stored bump.
const StatePayloadSize = 2

// StateRecordSize is the full persisted size of a VaultState record.
const StateRecordSize = StateDiscriminatorSize + StatePayloadSize

// VaultState is the persisted metadata record for one owner's vault.
// The record lives at derive("state", owner) and exists exactly while the
// owner has an open vault. Only the two bumps are logical payload; the
// remaining fields are storage-layer bookkeeping.
type VaultState struct {
	// Address is the derived address the record is stored at.
	// Recomputed from the owner on every access, never trusted from input.
	Address Address `json:"address"`

	// Owner is the identity that initialized the vault and is the only
	// party authorized to move its funds.
	Owner Address `json:"owner"`

	// VaultBump re-derives the vault address from this record's address.
	// Written once at Initialize, immutable afterwards.
	VaultBump uint8 `json:"vault_bump"`

	// StateBump re-derives this record's own address from the owner.
	// Written once at Initialize, immutable afterwards.
	StateBump uint8 `json:"state_bump"`

	// RentDeposit is the rent-exempt minimum transferred into the record
	// at Initialize and refunded to the owner at Close.
	RentDeposit uint64 `json:"rent_deposit"`

	// CreatedAt is the storage-layer creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the VaultState model.
func (s VaultState) TableName() string {
	return "vault_states"
}

// Vault is the implicit balance-holding account. Its entire state is the
// balance it holds; both addresses are derived, never stored.
type Vault struct {
	// Address is derive("vault", state.Address).
	Address Address `json:"address"`

	// Balance is the held amount in the smallest unit.
	Balance uint64 `json:"balance"`
}
