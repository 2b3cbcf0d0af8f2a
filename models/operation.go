package models

import (
	"encoding/binary"
	"time"
)

// OperationKind names one of the four vault entry points.
type OperationKind string

const (
	OpInitialize OperationKind = "initialize"
	OpDeposit    OperationKind = "deposit"
	OpWithdraw   OperationKind = "withdraw"
	OpClose      OperationKind = "close"
)

// OperationRequest is the wire form of a vault operation. The caller signs
// the canonical byte encoding with the private key of Owner; the server
// verifies the signature before the operation reaches the ledger engine.
type OperationRequest struct {
	// Op selects which of the four operations to execute.
	Op OperationKind `json:"op"`

	// Owner is the vault owner's identity (an ed25519 public key).
	Owner Address `json:"owner"`

	// Amount is the transfer amount for deposit/withdraw.
	// Must be zero for initialize/close.
	Amount uint64 `json:"amount,omitempty"`

	// IssuedAt bounds signature replay: the server rejects requests whose
	// timestamp falls outside the configured freshness window.
	IssuedAt time.Time `json:"issued_at"`

	// StateAddress, when set, is the caller's locally derived state record
	// address. The server compares it against its own derivation and
	// rejects the operation on mismatch, so a client holding stale or
	// forged addresses fails fast instead of touching the wrong record.
	StateAddress *Address `json:"state_address,omitempty"`

	// VaultAddress, when set, is the caller's locally derived vault
	// address, verified the same way as StateAddress.
	VaultAddress *Address `json:"vault_address,omitempty"`

	// Signature is the ed25519 signature over [OperationRequest.CanonicalBytes],
	// base58-encoded on the wire.
	Signature string `json:"signature"`
}

// CanonicalBytes returns the deterministic byte encoding that is signed by
// the caller and verified by the server. Layout:
//
//	owner (32 bytes) ‖ op (length-prefixed) ‖ amount (8 bytes LE) ‖ issued_at unix-nano (8 bytes LE)
func (r OperationRequest) CanonicalBytes() []byte {
	buf := make([]byte, 0, AddressLength+1+len(r.Op)+16)
	buf = append(buf, r.Owner[:]...)
	buf = append(buf, byte(len(r.Op)))
	buf = append(buf, []byte(r.Op)...)
	buf = binary.LittleEndian.AppendUint64(buf, r.Amount)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(r.IssuedAt.UnixNano()))
	return buf
}

// SessionRequest is the signed handshake that trades proof of key ownership
// for a bearer token. The caller signs CanonicalBytes with the private key
// matching Identity.
type SessionRequest struct {
	// Identity is the caller's ed25519 public key.
	Identity Address `json:"identity"`

	// IssuedAt bounds replay of the handshake payload.
	IssuedAt time.Time `json:"issued_at"`

	// Signature is the base58-encoded ed25519 signature over CanonicalBytes.
	Signature string `json:"signature"`
}

// CanonicalBytes returns the signed byte encoding of the handshake:
//
//	identity (32 bytes) ‖ "session" ‖ issued_at unix-nano (8 bytes LE)
func (r SessionRequest) CanonicalBytes() []byte {
	buf := make([]byte, 0, AddressLength+7+8)
	buf = append(buf, r.Identity[:]...)
	buf = append(buf, []byte("session")...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(r.IssuedAt.UnixNano()))
	return buf
}

// VaultView is the read-only projection returned by the status endpoint:
// both derived addresses, stored bumps and current balances for one owner.
type VaultView struct {
	Owner        Address `json:"owner"`
	StateAddress Address `json:"state_address"`
	VaultAddress Address `json:"vault_address"`
	VaultBump    uint8   `json:"vault_bump"`
	StateBump    uint8   `json:"state_bump"`
	Balance      uint64  `json:"balance"`
	RentDeposit  uint64  `json:"rent_deposit"`
}

// OperationResult reports the effect of a completed operation.
type OperationResult struct {
	Op           OperationKind `json:"op"`
	Owner        Address       `json:"owner"`
	StateAddress Address       `json:"state_address"`
	VaultAddress Address       `json:"vault_address"`

	// Amount is the moved amount: the request amount for deposit/withdraw,
	// the swept balance for close, the rent deposit for initialize.
	Amount uint64 `json:"amount"`

	// Balance is the vault balance after the operation
	// (zero after close, since the vault no longer exists logically).
	Balance uint64 `json:"balance"`
}
