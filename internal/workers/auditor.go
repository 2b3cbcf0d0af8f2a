// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

package workers

import (
	"context"
	"time"

	"github.com/aminovt/solvault/internal/config"
	"github.com/aminovt/solvault/internal/derive"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/store"
)

// Auditor periodically re-derives the addresses of every persisted vault
// record from its stored bumps and reports records whose stored address no
// longer matches the derivation. A mismatch means the record was corrupted
// or tampered with after creation; every operation on it will be rejected,
// so the auditor only logs, it never repairs.
//
// It also tracks the aggregate account balance between passes. Transfers
// conserve the sum, so a change not explained by account funding indicates
// a bookkeeping fault.
type Auditor struct {
	states store.VaultStateRepository
	book   store.BalanceSheet

	interval  time.Duration
	pageSize  uint64
	lastTotal *uint64

	logger *logger.Logger
}

// NewAuditor constructs an [Auditor] over the given repositories.
func NewAuditor(states store.VaultStateRepository, book store.BalanceSheet, cfg config.Workers, logger *logger.Logger) *Auditor {
	return &Auditor{
		states:   states,
		book:     book,
		interval: cfg.AuditInterval,
		pageSize: uint64(cfg.AuditPageSize),
		logger:   logger,
	}
}

// Run starts the audit loop in its own goroutine and returns immediately.
func (a *Auditor) Run() {
	go a.loop()
}

func (a *Auditor) loop() {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for range ticker.C {
		checked, mismatched, err := a.AuditPass(context.Background())
		if err != nil {
			a.logger.Err(err).Msg("audit pass aborted")
			continue
		}
		a.logger.Info().
			Int("checked", checked).
			Int("mismatched", mismatched).
			Msg("audit pass completed")
	}
}

// AuditPass walks all vault records page by page and re-derives each
// record's addresses from its stored bumps. It returns the number of
// records checked and the number whose derivation diverged.
func (a *Auditor) AuditPass(ctx context.Context) (checked, mismatched int, err error) {
	log := a.logger

	if err := a.checkSupply(ctx); err != nil {
		return 0, 0, err
	}

	for offset := uint64(0); ; offset += a.pageSize {
		page, err := a.states.List(ctx, offset, a.pageSize)
		if err != nil {
			return checked, mismatched, err
		}
		if len(page) == 0 {
			return checked, mismatched, nil
		}

		for _, state := range page {
			checked++

			stateAddr, derr := derive.StateAt(state.Owner, state.StateBump)
			if derr != nil || !stateAddr.Equal(state.Address) {
				mismatched++
				log.Warn().
					Stringer("owner", state.Owner).
					Stringer("stored_state_address", state.Address).
					Uint8("state_bump", state.StateBump).
					Msg("state record fails re-derivation")
				continue
			}

			if _, derr = derive.VaultAt(state.Address, state.VaultBump); derr != nil {
				mismatched++
				log.Warn().
					Stringer("owner", state.Owner).
					Uint8("vault_bump", state.VaultBump).
					Msg("vault address fails re-derivation")
			}
		}

		if uint64(len(page)) < a.pageSize {
			return checked, mismatched, nil
		}
	}
}

// checkSupply compares the aggregate balance against the previous pass.
// A drop is always suspicious; growth can be legitimate account funding,
// so both directions are logged but at different levels.
func (a *Auditor) checkSupply(ctx context.Context) error {
	log := a.logger

	total, err := a.book.TotalBalance(ctx)
	if err != nil {
		return err
	}

	if a.lastTotal != nil && total != *a.lastTotal {
		event := log.Info()
		if total < *a.lastTotal {
			event = log.Warn()
		}
		event.
			Uint64("previous_total", *a.lastTotal).
			Uint64("current_total", total).
			Msg("aggregate balance changed since last audit pass")
	}

	a.lastTotal = &total
	return nil
}
