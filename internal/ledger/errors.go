package ledger

import (
	"errors"

	"github.com/aminovt/solvault/internal/derive"
)

// Sentinel errors returned by vault operations. Every error is terminal
// for the operation: no partial effects are ever committed. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrAlreadyInitialized is returned by Initialize when a VaultState
	// record already exists for the owner.
	ErrAlreadyInitialized = errors.New("vault already initialized for owner")

	// ErrVaultNotFound is returned when an operation targets an owner with
	// no VaultState record, i.e. the owner never initialized or has closed.
	ErrVaultNotFound = errors.New("vault not found for owner")

	// ErrBumpMismatch is the authorization failure: a stored bump no longer
	// re-derives the record's address, or a caller-supplied account does
	// not match the server-side derivation.
	ErrBumpMismatch = errors.New("account address does not match derivation")

	// ErrInsufficientFunds is returned when a transfer source holds less
	// than the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrArithmeticOverflow is returned when crediting the destination
	// would overflow its uint64 balance. Checked before any transfer.
	ErrArithmeticOverflow = errors.New("balance arithmetic overflow")

	// ErrZeroAmount rejects zero-amount deposits and withdrawals. Policy
	// decision: a zero amount is always a caller mistake, never a no-op.
	ErrZeroAmount = errors.New("amount must be greater than zero")

	// ErrUnauthorizedTransfer is returned by a balance book when the
	// presented authority does not cover the transfer source.
	ErrUnauthorizedTransfer = errors.New("authority does not cover transfer source")
)

// ErrDerivationExhausted is re-exported so ledger callers can match the
// full operation error taxonomy against one package.
var ErrDerivationExhausted = derive.ErrDerivationExhausted
