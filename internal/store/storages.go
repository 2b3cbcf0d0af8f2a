// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

package store

import (
	"context"
	"fmt"

	"github.com/aminovt/solvault/internal/logger"
)

// Storages bundles the repository implementations of the ledger's two
// collaborator primitives.
type Storages struct {
	Book   BalanceSheet
	States VaultStateRepository

	db     *DB
	logger *logger.Logger
}

// NewStorages constructs the repository set over one shared connection.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		Book:   NewAccountRepository(db, logger),
		States: NewVaultStateRepository(db, logger),
		db:     db,
		logger: logger,
	}
}

// InTransaction runs fn against a Storages whose repositories are all
// bound to one SQL transaction, committing on nil and rolling back on
// error. This is what makes multi-step ledger effects (transfer plus
// record update) all-or-nothing.
func (s *Storages) InTransaction(ctx context.Context, fn func(s *Storages) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txStorages := &Storages{
		Book:   &accountRepository{q: tx, logger: s.logger},
		States: &vaultStateRepository{q: tx, logger: s.logger},
		logger: s.logger,
	}

	if err := fn(txStorages); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}
