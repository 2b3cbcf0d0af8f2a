// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

// Package ledger implements the vault state machine: the four operations
// (Initialize, Deposit, Withdraw, Close) that mutate a vault's balance and
// its persisted VaultState record under the derivation-based authorization
// discipline.
//
// Per owner the machine is Uninitialized → Initialize → Active → Close →
// Uninitialized, with Deposit/Withdraw as self-loops on Active. The engine
// holds no mutable state of its own; atomicity of multi-step effects is the
// responsibility of the BalanceBook/StateRepository pair it is given (the
// service layer binds both to one SQL transaction per operation).
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aminovt/solvault/internal/derive"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/models"
)

// Engine executes vault operations against a balance book and a state
// repository. Safe for concurrent use: all fields are read-only after
// construction, and the external ledger serializes conflicting operations
// on the same owner.
type Engine struct {
	book   BalanceBook
	states StateRepository
	logger *logger.Logger
}

// NewEngine constructs an [Engine] over the given collaborators.
func NewEngine(book BalanceBook, states StateRepository, logger *logger.Logger) *Engine {
	return &Engine{
		book:   book,
		states: states,
		logger: logger,
	}
}

// Initialize allocates the caller's VaultState record at its derived
// address, funds it with exactly the rent-exempt minimum from the caller,
// and persists the two bumps produced by derivation. Balance funding of
// the vault itself is deferred entirely to Deposit.
//
// Returns [ErrAlreadyInitialized] if the record exists and
// [ErrInsufficientFunds] if the caller cannot cover the minimum.
func (e *Engine) Initialize(ctx context.Context, caller models.Address) (models.OperationResult, error) {
	log := logger.FromContext(ctx)

	if _, err := e.states.Get(ctx, caller); err == nil {
		log.Error().Str("owner", caller.String()).Msg("vault already initialized")
		return models.OperationResult{}, ErrAlreadyInitialized
	} else if !isNotFound(err) {
		return models.OperationResult{}, fmt.Errorf("state lookup failed: %w", err)
	}

	stateAddr, stateBump, err := derive.FindState(caller)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("state derivation failed: %w", err)
	}

	vaultAddr, vaultBump, err := derive.FindVault(stateAddr)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("vault derivation failed: %w", err)
	}

	rent := RentExemptMinimum(models.StateRecordSize)
	auth := SignerAuthority{Identity: caller}
	if err := e.book.Transfer(ctx, caller, stateAddr, rent, auth); err != nil {
		log.Err(err).Str("owner", caller.String()).Uint64("rent", rent).Msg("rent funding failed")
		return models.OperationResult{}, err
	}

	created, err := e.states.Create(ctx, models.VaultState{
		Address:     stateAddr,
		Owner:       caller,
		VaultBump:   vaultBump,
		StateBump:   stateBump,
		RentDeposit: rent,
	})
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("state record allocation failed: %w", err)
	}

	log.Info().
		Str("owner", caller.String()).
		Str("state", created.Address.String()).
		Str("vault", vaultAddr.String()).
		Uint8("state_bump", stateBump).
		Uint8("vault_bump", vaultBump).
		Msg("vault initialized")

	return models.OperationResult{
		Op:           models.OpInitialize,
		Owner:        caller,
		StateAddress: stateAddr,
		VaultAddress: vaultAddr,
		Amount:       rent,
		Balance:      0,
	}, nil
}

// Deposit moves amount from the caller's external balance into the vault.
// The whole amount moves or nothing does.
func (e *Engine) Deposit(ctx context.Context, caller models.Address, amount uint64) (models.OperationResult, error) {
	log := logger.FromContext(ctx)

	if amount == 0 {
		return models.OperationResult{}, ErrZeroAmount
	}

	state, vaultAddr, err := e.resolve(ctx, caller)
	if err != nil {
		return models.OperationResult{}, err
	}

	vaultBalance, err := e.book.Balance(ctx, vaultAddr)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("vault balance lookup failed: %w", err)
	}
	if amount > math.MaxUint64-vaultBalance {
		log.Error().Str("vault", vaultAddr.String()).Uint64("amount", amount).Msg("deposit would overflow vault balance")
		return models.OperationResult{}, ErrArithmeticOverflow
	}

	auth := SignerAuthority{Identity: caller}
	if err := e.book.Transfer(ctx, caller, vaultAddr, amount, auth); err != nil {
		log.Err(err).Str("owner", caller.String()).Uint64("amount", amount).Msg("deposit transfer failed")
		return models.OperationResult{}, err
	}

	return models.OperationResult{
		Op:           models.OpDeposit,
		Owner:        caller,
		StateAddress: state.Address,
		VaultAddress: vaultAddr,
		Amount:       amount,
		Balance:      vaultBalance + amount,
	}, nil
}

// Withdraw moves amount from the vault back to the caller. The vault
// address has no private key, so the debit is authorized by a [Capability]:
// the engine reproduces the exact seed tuple used at derivation time.
func (e *Engine) Withdraw(ctx context.Context, caller models.Address, amount uint64) (models.OperationResult, error) {
	log := logger.FromContext(ctx)

	if amount == 0 {
		return models.OperationResult{}, ErrZeroAmount
	}

	state, vaultAddr, err := e.resolve(ctx, caller)
	if err != nil {
		return models.OperationResult{}, err
	}

	vaultBalance, err := e.book.Balance(ctx, vaultAddr)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("vault balance lookup failed: %w", err)
	}
	if vaultBalance < amount {
		return models.OperationResult{}, ErrInsufficientFunds
	}

	capability := Capability{
		Namespace: derive.NamespaceVault,
		Seed:      state.Address.Bytes(),
		Bump:      state.VaultBump,
	}
	if err := e.book.Transfer(ctx, vaultAddr, caller, amount, capability); err != nil {
		log.Err(err).Str("vault", vaultAddr.String()).Uint64("amount", amount).Msg("withdraw transfer failed")
		return models.OperationResult{}, err
	}

	return models.OperationResult{
		Op:           models.OpWithdraw,
		Owner:        caller,
		StateAddress: state.Address,
		VaultAddress: vaultAddr,
		Amount:       amount,
		Balance:      vaultBalance - amount,
	}, nil
}

// Close sweeps the entire vault balance to the caller, refunds the state
// record's rent deposit, and deletes the record. Both the sweep and the
// deletion happen or neither does; the owner may Initialize again
// afterwards and, with unchanged inputs, re-derives identical addresses.
func (e *Engine) Close(ctx context.Context, caller models.Address) (models.OperationResult, error) {
	log := logger.FromContext(ctx)

	state, vaultAddr, err := e.resolve(ctx, caller)
	if err != nil {
		return models.OperationResult{}, err
	}

	swept, err := e.book.Balance(ctx, vaultAddr)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("vault balance lookup failed: %w", err)
	}

	if swept > 0 {
		capability := Capability{
			Namespace: derive.NamespaceVault,
			Seed:      state.Address.Bytes(),
			Bump:      state.VaultBump,
		}
		if err := e.book.Transfer(ctx, vaultAddr, caller, swept, capability); err != nil {
			log.Err(err).Str("vault", vaultAddr.String()).Uint64("amount", swept).Msg("close sweep failed")
			return models.OperationResult{}, err
		}
	}

	// The record's address holds its own rent deposit; reclaim whatever it
	// holds, not just the recorded minimum.
	refund, err := e.book.Balance(ctx, state.Address)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("state balance lookup failed: %w", err)
	}
	if refund > 0 {
		capability := Capability{
			Namespace: derive.NamespaceState,
			Seed:      caller.Bytes(),
			Bump:      state.StateBump,
		}
		if err := e.book.Transfer(ctx, state.Address, caller, refund, capability); err != nil {
			log.Err(err).Str("state", state.Address.String()).Uint64("refund", refund).Msg("rent refund failed")
			return models.OperationResult{}, err
		}
	}

	if err := e.states.Delete(ctx, caller); err != nil {
		return models.OperationResult{}, fmt.Errorf("state record deallocation failed: %w", err)
	}

	log.Info().
		Str("owner", caller.String()).
		Uint64("swept", swept).
		Uint64("rent_refund", refund).
		Msg("vault closed")

	return models.OperationResult{
		Op:           models.OpClose,
		Owner:        caller,
		StateAddress: state.Address,
		VaultAddress: vaultAddr,
		Amount:       swept,
		Balance:      0,
	}, nil
}

// View returns the derived addresses, stored bumps, and current balance
// for an owner's active vault.
func (e *Engine) View(ctx context.Context, owner models.Address) (models.VaultView, error) {
	state, vaultAddr, err := e.resolve(ctx, owner)
	if err != nil {
		return models.VaultView{}, err
	}

	balance, err := e.book.Balance(ctx, vaultAddr)
	if err != nil {
		return models.VaultView{}, fmt.Errorf("vault balance lookup failed: %w", err)
	}

	return models.VaultView{
		Owner:        owner,
		StateAddress: state.Address,
		VaultAddress: vaultAddr,
		VaultBump:    state.VaultBump,
		StateBump:    state.StateBump,
		Balance:      balance,
		RentDeposit:  state.RentDeposit,
	}, nil
}

// VerifySupplied compares caller-supplied addresses against the engine's
// own derivation for the owner. A mismatch is the authorization failure
// [ErrBumpMismatch], regardless of anything else about the request.
func (e *Engine) VerifySupplied(ctx context.Context, owner models.Address, suppliedState, suppliedVault *models.Address) error {
	state, vaultAddr, err := e.resolve(ctx, owner)
	if err != nil {
		return err
	}

	if suppliedState != nil && !suppliedState.Equal(state.Address) {
		return ErrBumpMismatch
	}
	if suppliedVault != nil && !suppliedVault.Equal(vaultAddr) {
		return ErrBumpMismatch
	}

	return nil
}

// resolve loads the owner's VaultState and replays the derivation with the
// stored bumps. This is the authorization check every Active-state
// operation passes through: the record address must re-derive from
// (owner, state_bump) and the vault address from (record, vault_bump).
// Any divergence, including a bump that now lands on-curve, is
// [ErrBumpMismatch].
func (e *Engine) resolve(ctx context.Context, owner models.Address) (models.VaultState, models.Address, error) {
	log := logger.FromContext(ctx)

	state, err := e.states.Get(ctx, owner)
	if err != nil {
		if isNotFound(err) {
			return models.VaultState{}, models.Address{}, ErrVaultNotFound
		}
		return models.VaultState{}, models.Address{}, fmt.Errorf("state lookup failed: %w", err)
	}

	stateAddr, err := derive.StateAt(owner, state.StateBump)
	if err != nil || !stateAddr.Equal(state.Address) {
		log.Error().
			Str("owner", owner.String()).
			Str("stored", state.Address.String()).
			Uint8("state_bump", state.StateBump).
			Msg("state address failed re-derivation")
		return models.VaultState{}, models.Address{}, ErrBumpMismatch
	}

	vaultAddr, err := derive.VaultAt(state.Address, state.VaultBump)
	if err != nil {
		log.Error().
			Str("owner", owner.String()).
			Uint8("vault_bump", state.VaultBump).
			Msg("vault address failed re-derivation")
		return models.VaultState{}, models.Address{}, ErrBumpMismatch
	}

	return state, vaultAddr, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrVaultNotFound)
}
