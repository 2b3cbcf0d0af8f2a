// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/aminovt/solvault/internal/ledger"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [ledger.BalanceBook] over the "accounts" table.
//
// When db is set the repository runs standalone and opens its own
// transaction per transfer; when constructed by [Storages.InTransaction]
// the repository shares the caller's transaction and q is a *sql.Tx.
type accountRepository struct {
	logger *logger.Logger
	q      querier
	db     *DB
}

// NewAccountRepository constructs a [BalanceSheet] backed by the provided
// database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) BalanceSheet {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		q:      db.DB,
		logger: logger,
	}
}

// Balance implements [ledger.BalanceBook]. An address without an account
// row reports a zero balance.
func (r *accountRepository) Balance(ctx context.Context, addr models.Address) (uint64, error) {
	log := logger.FromContext(ctx)

	var balance int64
	if err := r.q.QueryRowContext(ctx, selectBalance, addr.String()).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		log.Err(err).Str("func", "*accountRepository.Balance").Msg("error: balance query failed")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return uint64(balance), nil
}

// TotalBalance implements [BalanceSheet]. Transfers debit and credit in
// one transaction, so outside of account funding the sum is constant; the
// audit worker compares successive sums to detect drift.
func (r *accountRepository) TotalBalance(ctx context.Context) (uint64, error) {
	log := logger.FromContext(ctx)

	var total int64
	if err := r.q.QueryRowContext(ctx, sumBalances).Scan(&total); err != nil {
		log.Err(err).Str("func", "*accountRepository.TotalBalance").Msg("error: sum query failed")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return uint64(total), nil
}

// Transfer implements [ledger.BalanceBook]: debit and credit execute in
// one transaction, so either the full amount moves or nothing does.
//
// Error handling:
//   - auth not covering the source → [ledger.ErrUnauthorizedTransfer].
//   - amount outside the signed 64-bit range of the balance column →
//     [ledger.ErrArithmeticOverflow].
//   - debit affecting zero rows → [ledger.ErrInsufficientFunds].
//   - any driver-level error → wrapped as a statement error.
func (r *accountRepository) Transfer(ctx context.Context, from, to models.Address, amount uint64, auth ledger.Authority) error {
	if err := ledger.VerifyAuthority(auth, from); err != nil {
		return err
	}

	// The balance column is a signed BIGINT; an amount past its range would
	// reach the statements as a negative parameter and invert the debit.
	if amount > math.MaxInt64 {
		return ledger.ErrArithmeticOverflow
	}

	// Already inside a caller-owned transaction: execute directly.
	if r.db == nil {
		return r.transfer(ctx, r.q, from, to, amount)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := r.transfer(ctx, tx, from, to, amount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

func (r *accountRepository) transfer(ctx context.Context, q querier, from, to models.Address, amount uint64) error {
	log := logger.FromContext(ctx)

	res, err := q.ExecContext(ctx, debitAccount, from.String(), int64(amount))
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.transfer").Msg("error: debit failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ledger.ErrInsufficientFunds
	}

	if _, err := q.ExecContext(ctx, creditAccount, to.String(), int64(amount)); err != nil {
		log.Err(err).Str("func", "*accountRepository.transfer").Msg("error: credit failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
