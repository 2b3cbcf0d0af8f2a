package service

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/aminovt/solvault/internal/derive"
	"github.com/aminovt/solvault/internal/ledger"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/store"
	"github.com/aminovt/solvault/internal/utils"
	"github.com/aminovt/solvault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────

// listableStates adds the paged listing over the in-memory state record
// set so it satisfies store.VaultStateRepository.
type listableStates struct {
	*ledger.MemoryStates
}

func (s *listableStates) List(_ context.Context, _, _ uint64) ([]models.VaultState, error) {
	return nil, nil
}

// fakeRunner hands the callback the same repository set the service reads
// from, standing in for the transaction-bound rebinding done by the store.
type fakeRunner struct {
	storages *store.Storages
}

func (f *fakeRunner) InTransaction(_ context.Context, fn func(s *store.Storages) error) error {
	return fn(f.storages)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const funding = 10_000_000

func newTestVaultService(t *testing.T) (*vaultService, *ledger.MemoryBook) {
	t.Helper()

	book := ledger.NewMemoryBook()
	states := &listableStates{MemoryStates: ledger.NewMemoryStates()}
	storages := &store.Storages{Book: book, States: states}

	svc := &vaultService{
		storages:        storages,
		runner:          &fakeRunner{storages: storages},
		signatureWindow: 2 * time.Minute,
		logger:          logger.Nop(),
	}
	return svc, book
}

func signedOperation(owner models.Address, priv ed25519.PrivateKey, op models.OperationKind, amount uint64) models.OperationRequest {
	request := models.OperationRequest{
		Op:       op,
		Owner:    owner,
		Amount:   amount,
		IssuedAt: time.Now(),
	}
	request.Signature = utils.SignPayload(priv, request.CanonicalBytes())
	return request
}

// ─────────────────────────────────────────────
// Execute
// ─────────────────────────────────────────────

func TestVaultService_Execute_FullLifecycle(t *testing.T) {
	owner, priv := testKeyPair(t)
	svc, book := newTestVaultService(t)
	book.Mint(owner, funding)
	ctx := context.Background()

	initResult, err := svc.Execute(ctx, signedOperation(owner, priv, models.OpInitialize, 0))
	require.NoError(t, err)
	assert.Equal(t, models.OpInitialize, initResult.Op)

	depositResult, err := svc.Execute(ctx, signedOperation(owner, priv, models.OpDeposit, 1_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), depositResult.Balance)

	withdrawResult, err := svc.Execute(ctx, signedOperation(owner, priv, models.OpWithdraw, 400))
	require.NoError(t, err)
	assert.Equal(t, uint64(600), withdrawResult.Balance)

	closeResult, err := svc.Execute(ctx, signedOperation(owner, priv, models.OpClose, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(600), closeResult.Amount)

	// Everything minted is back under the owner's own key.
	balance, err := book.Balance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(funding), balance)
}

func TestVaultService_Execute_InvalidRequest(t *testing.T) {
	owner, priv := testKeyPair(t)
	svc, _ := newTestVaultService(t)

	tests := []struct {
		name    string
		request models.OperationRequest
		wantErr error
	}{
		{"zero owner", signedOperation(models.Address{}, priv, models.OpDeposit, 1), ErrInvalidDataProvided},
		{"empty signature", models.OperationRequest{Op: models.OpDeposit, Owner: owner, Amount: 1, IssuedAt: time.Now()}, ErrInvalidDataProvided},
		{"unknown op", signedOperation(owner, priv, models.OperationKind("transfer"), 1), ErrUnknownOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Execute(context.Background(), tt.request)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVaultService_Execute_StaleRequest(t *testing.T) {
	owner, priv := testKeyPair(t)
	svc, _ := newTestVaultService(t)

	request := models.OperationRequest{
		Op:       models.OpDeposit,
		Owner:    owner,
		Amount:   1,
		IssuedAt: time.Now().Add(-time.Hour),
	}
	request.Signature = utils.SignPayload(priv, request.CanonicalBytes())

	_, err := svc.Execute(context.Background(), request)

	assert.ErrorIs(t, err, ErrRequestNotFresh)
}

func TestVaultService_Execute_WrongSigner(t *testing.T) {
	owner, _ := testKeyPair(t)
	_, otherPriv := testKeyPair(t)
	svc, _ := newTestVaultService(t)

	_, err := svc.Execute(context.Background(), signedOperation(owner, otherPriv, models.OpDeposit, 1))

	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVaultService_Execute_TamperedAmount(t *testing.T) {
	owner, priv := testKeyPair(t)
	svc, _ := newTestVaultService(t)

	// Sign one amount, send another.
	request := signedOperation(owner, priv, models.OpWithdraw, 10)
	request.Amount = 10_000

	_, err := svc.Execute(context.Background(), request)

	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVaultService_Execute_LedgerErrorsPropagate(t *testing.T) {
	owner, priv := testKeyPair(t)
	svc, book := newTestVaultService(t)
	ctx := context.Background()

	_, err := svc.Execute(ctx, signedOperation(owner, priv, models.OpDeposit, 100))
	assert.ErrorIs(t, err, ledger.ErrVaultNotFound)

	book.Mint(owner, funding)
	_, err = svc.Execute(ctx, signedOperation(owner, priv, models.OpInitialize, 0))
	require.NoError(t, err)

	_, err = svc.Execute(ctx, signedOperation(owner, priv, models.OpInitialize, 0))
	assert.ErrorIs(t, err, ledger.ErrAlreadyInitialized)

	_, err = svc.Execute(ctx, signedOperation(owner, priv, models.OpWithdraw, 1))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	_, err = svc.Execute(ctx, signedOperation(owner, priv, models.OpDeposit, 0))
	assert.ErrorIs(t, err, ledger.ErrZeroAmount)
}

func TestVaultService_Execute_SuppliedAddressVerified(t *testing.T) {
	owner, priv := testKeyPair(t)
	svc, book := newTestVaultService(t)
	book.Mint(owner, funding)
	ctx := context.Background()

	_, err := svc.Execute(ctx, signedOperation(owner, priv, models.OpInitialize, 0))
	require.NoError(t, err)

	stateAddr, _, err := derive.FindState(owner)
	require.NoError(t, err)
	vaultAddr, _, err := derive.FindVault(stateAddr)
	require.NoError(t, err)

	// Matching addresses pass.
	good := signedOperation(owner, priv, models.OpDeposit, 50)
	good.StateAddress = &stateAddr
	good.VaultAddress = &vaultAddr
	_, err = svc.Execute(ctx, good)
	require.NoError(t, err)

	// A forged vault address is rejected before any balance moves.
	wrong := owner
	bad := signedOperation(owner, priv, models.OpDeposit, 50)
	bad.VaultAddress = &wrong
	_, err = svc.Execute(ctx, bad)
	assert.ErrorIs(t, err, ledger.ErrBumpMismatch)

	view, err := svc.Status(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), view.Balance)
}

// ─────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────

func TestVaultService_Status(t *testing.T) {
	owner, priv := testKeyPair(t)
	svc, book := newTestVaultService(t)
	book.Mint(owner, funding)
	ctx := context.Background()

	_, err := svc.Status(ctx, owner)
	assert.ErrorIs(t, err, ledger.ErrVaultNotFound)

	_, err = svc.Execute(ctx, signedOperation(owner, priv, models.OpInitialize, 0))
	require.NoError(t, err)
	_, err = svc.Execute(ctx, signedOperation(owner, priv, models.OpDeposit, 777))
	require.NoError(t, err)

	view, err := svc.Status(ctx, owner)
	require.NoError(t, err)
	assert.True(t, view.Owner.Equal(owner))
	assert.Equal(t, uint64(777), view.Balance)

	_, err = svc.Status(ctx, models.Address{})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}
