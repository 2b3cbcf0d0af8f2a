// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

package service

import (
	"context"
	"time"

	"github.com/aminovt/solvault/internal/config"
	"github.com/aminovt/solvault/internal/ledger"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/store"
	"github.com/aminovt/solvault/internal/utils"
	"github.com/aminovt/solvault/models"
)

// transactionRunner runs a function against a transaction-bound repository
// set. Satisfied by *store.Storages.
type transactionRunner interface {
	InTransaction(ctx context.Context, fn func(s *store.Storages) error) error
}

// vaultService is the concrete implementation of VaultService.
// It authenticates each signed operation request, then runs the requested
// ledger transition inside a single database transaction so that the
// balance movement and the state record change land atomically.
type vaultService struct {
	storages *store.Storages
	runner   transactionRunner

	// signatureWindow bounds the age of a signed operation request.
	signatureWindow time.Duration

	logger *logger.Logger
}

// NewVaultService constructs a VaultService over the given repository set.
func NewVaultService(storages *store.Storages, cfg config.App, logger *logger.Logger) VaultService {
	return &vaultService{
		storages:        storages,
		runner:          storages,
		signatureWindow: cfg.SignatureWindow,
		logger:          logger,
	}
}

// Execute runs one signed vault operation end to end.
//
// The request signature must verify against the owner public key over the
// canonical request bytes, and the request timestamp must fall within the
// freshness window. When the caller supplies locally derived addresses,
// they are checked against the server-side derivation before any balance
// moves.
//
// All ledger effects of one operation commit or roll back together.
//
// Returns the operation result or:
//   - ErrInvalidDataProvided if the owner or signature is empty.
//   - ErrUnknownOperation if Op names none of the four operations.
//   - ErrRequestNotFresh if the request timestamp is outside the window.
//   - ErrSignatureInvalid if the signature does not verify.
//   - A ledger error (ledger.ErrAlreadyInitialized, ledger.ErrVaultNotFound,
//     ledger.ErrBumpMismatch, ledger.ErrInsufficientFunds,
//     ledger.ErrArithmeticOverflow, ledger.ErrZeroAmount) when the
//     transition itself is rejected.
func (s *vaultService) Execute(ctx context.Context, request models.OperationRequest) (models.OperationResult, error) {
	log := logger.FromContext(ctx)

	if err := s.authenticate(ctx, request); err != nil {
		return models.OperationResult{}, err
	}

	var result models.OperationResult
	err := s.runner.InTransaction(ctx, func(tx *store.Storages) error {
		engine := ledger.NewEngine(tx.Book, tx.States, s.logger)

		if request.StateAddress != nil || request.VaultAddress != nil {
			if err := engine.VerifySupplied(ctx, request.Owner, request.StateAddress, request.VaultAddress); err != nil {
				return err
			}
		}

		var opErr error
		switch request.Op {
		case models.OpInitialize:
			result, opErr = engine.Initialize(ctx, request.Owner)
		case models.OpDeposit:
			result, opErr = engine.Deposit(ctx, request.Owner, request.Amount)
		case models.OpWithdraw:
			result, opErr = engine.Withdraw(ctx, request.Owner, request.Amount)
		case models.OpClose:
			result, opErr = engine.Close(ctx, request.Owner)
		}
		return opErr
	})
	if err != nil {
		log.Err(err).
			Str("op", string(request.Op)).
			Stringer("owner", request.Owner).
			Msg("vault operation rejected")
		return models.OperationResult{}, err
	}

	return result, nil
}

// Status returns the read-only projection of one owner's vault.
//
// Status takes no signature: it mutates nothing and reveals only what the
// owner could re-derive locally. Returns ledger.ErrVaultNotFound when no
// vault exists for the owner.
func (s *vaultService) Status(ctx context.Context, owner models.Address) (models.VaultView, error) {
	if owner.IsZero() {
		return models.VaultView{}, ErrInvalidDataProvided
	}

	engine := ledger.NewEngine(s.storages.Book, s.storages.States, s.logger)
	return engine.View(ctx, owner)
}

// authenticate rejects requests with missing fields, unknown operations,
// stale timestamps or bad signatures before they reach the ledger.
func (s *vaultService) authenticate(ctx context.Context, request models.OperationRequest) error {
	log := logger.FromContext(ctx)

	if request.Owner.IsZero() || request.Signature == "" {
		log.Error().Str("op", string(request.Op)).Msg("invalid operation request provided")
		return ErrInvalidDataProvided
	}

	switch request.Op {
	case models.OpInitialize, models.OpDeposit, models.OpWithdraw, models.OpClose:
	default:
		log.Error().Str("op", string(request.Op)).Msg("unknown operation requested")
		return ErrUnknownOperation
	}

	if age := time.Since(request.IssuedAt); age > s.signatureWindow || age < -s.signatureWindow {
		log.Error().
			Str("op", string(request.Op)).
			Stringer("owner", request.Owner).
			Time("issued_at", request.IssuedAt).
			Msg("operation request outside freshness window")
		return ErrRequestNotFresh
	}

	if err := utils.VerifySignature(request.Owner, request.CanonicalBytes(), request.Signature); err != nil {
		log.Err(err).
			Str("op", string(request.Op)).
			Stringer("owner", request.Owner).
			Msg("operation signature verification failed")
		return ErrSignatureInvalid
	}

	return nil
}
