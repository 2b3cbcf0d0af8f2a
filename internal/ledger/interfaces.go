package ledger

import (
	"context"

	"github.com/aminovt/solvault/models"
)

// BalanceBook is the external balance-transfer primitive: it moves units
// between addresses atomically, debiting and crediting in one step, and
// fails without effect when the source holds less than amount.
//
// An address with no account entry holds a zero balance; crediting such an
// address creates it.
type BalanceBook interface {
	// Balance returns the current balance of addr. Unknown addresses
	// report zero with no error.
	Balance(ctx context.Context, addr models.Address) (uint64, error)

	// Transfer atomically moves amount from one address to another after
	// validating auth against the source. Returns [ErrInsufficientFunds]
	// if the source balance is below amount, [ErrUnauthorizedTransfer] if
	// auth does not cover from.
	Transfer(ctx context.Context, from, to models.Address, amount uint64, auth Authority) error
}

// StateRepository is the external record allocate/deallocate primitive:
// fixed-size VaultState slots keyed by owner identity.
type StateRepository interface {
	// Get returns the owner's VaultState record or [ErrVaultNotFound].
	Get(ctx context.Context, owner models.Address) (models.VaultState, error)

	// Create allocates the record, returning [ErrAlreadyInitialized] if a
	// record for the owner already exists.
	Create(ctx context.Context, state models.VaultState) (models.VaultState, error)

	// Delete deallocates the owner's record, returning [ErrVaultNotFound]
	// if none exists.
	Delete(ctx context.Context, owner models.Address) error
}
