package store

import (
	"context"
	"database/sql"

	"github.com/aminovt/solvault/internal/ledger"
	"github.com/aminovt/solvault/models"
)

// querier is the subset of database operations shared by *sql.DB and
// *sql.Tx, letting repositories run either standalone or rebound to an
// open transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BalanceSheet extends the ledger's balance primitive with the aggregate
// query the audit worker uses to watch for supply drift.
type BalanceSheet interface {
	ledger.BalanceBook

	// TotalBalance returns the sum of all account balances.
	TotalBalance(ctx context.Context) (uint64, error)
}

// VaultStateRepository extends the ledger's record primitive with the
// paged listing the audit worker uses.
type VaultStateRepository interface {
	ledger.StateRepository

	// List returns up to limit records ordered by creation time, skipping
	// offset rows.
	List(ctx context.Context, offset, limit uint64) ([]models.VaultState, error)
}
