package ledger

import (
	"context"
	"sync"

	"github.com/aminovt/solvault/models"
)

// MemoryBook is an in-process [BalanceBook]. It backs engine tests and
// local dry-run flows; the production book lives in the store package.
type MemoryBook struct {
	mu       sync.RWMutex
	balances map[models.Address]uint64
}

// NewMemoryBook constructs an empty [MemoryBook].
func NewMemoryBook() *MemoryBook {
	return &MemoryBook{balances: make(map[models.Address]uint64)}
}

// Mint credits addr with amount out of thin air. Test setup only; the
// production book has no equivalent.
func (b *MemoryBook) Mint(addr models.Address, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[addr] += amount
}

// Balance implements [BalanceBook]. Unknown addresses report zero.
func (b *MemoryBook) Balance(_ context.Context, addr models.Address) (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[addr], nil
}

// Transfer implements [BalanceBook] with all-or-nothing semantics.
func (b *MemoryBook) Transfer(_ context.Context, from, to models.Address, amount uint64, auth Authority) error {
	if err := VerifyAuthority(auth, from); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[from] < amount {
		return ErrInsufficientFunds
	}

	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}

// Total returns the sum of all balances, used to assert conservation.
func (b *MemoryBook) Total() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var total uint64
	for _, bal := range b.balances {
		total += bal
	}
	return total
}

// TotalBalance mirrors the production book's aggregate query.
func (b *MemoryBook) TotalBalance(_ context.Context) (uint64, error) {
	return b.Total(), nil
}

// MemoryStates is an in-process [StateRepository] keyed by owner.
type MemoryStates struct {
	mu      sync.RWMutex
	records map[models.Address]models.VaultState
}

// NewMemoryStates constructs an empty [MemoryStates].
func NewMemoryStates() *MemoryStates {
	return &MemoryStates{records: make(map[models.Address]models.VaultState)}
}

// Get implements [StateRepository].
func (s *MemoryStates) Get(_ context.Context, owner models.Address) (models.VaultState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.records[owner]
	if !ok {
		return models.VaultState{}, ErrVaultNotFound
	}
	return state, nil
}

// Create implements [StateRepository].
func (s *MemoryStates) Create(_ context.Context, state models.VaultState) (models.VaultState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[state.Owner]; ok {
		return models.VaultState{}, ErrAlreadyInitialized
	}
	s.records[state.Owner] = state
	return state, nil
}

// Delete implements [StateRepository].
func (s *MemoryStates) Delete(_ context.Context, owner models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[owner]; !ok {
		return ErrVaultNotFound
	}
	delete(s.records, owner)
	return nil
}

// Put overwrites a record unconditionally. Test setup only, used to plant
// corrupted bumps for authorization-failure cases.
func (s *MemoryStates) Put(state models.VaultState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[state.Owner] = state
}
