package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aminovt/solvault/internal/ledger"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/models"
)

func newTestAccountRepo(t *testing.T) (*accountRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &accountRepository{
		db:     &DB{DB: db, logger: l},
		q:      db,
		logger: l,
	}
	return repo, mock, db
}

func testAddr(label string) models.Address {
	sum := sha256.Sum256([]byte(label))
	addr, _ := models.AddressFromBytes(sum[:])
	return addr
}

func TestBalance_KnownAccount(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	addr := testAddr("alice")
	mock.ExpectQuery("SELECT balance").
		WithArgs(addr.String()).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(1500))

	balance, err := repo.Balance(context.Background(), addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 1500 {
		t.Errorf("expected balance=1500, got %d", balance)
	}
}

func TestBalance_UnknownAccountIsZero(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	addr := testAddr("nobody")
	mock.ExpectQuery("SELECT balance").
		WithArgs(addr.String()).
		WillReturnError(sql.ErrNoRows)

	balance, err := repo.Balance(context.Background(), addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 0 {
		t.Errorf("expected zero balance for unknown account, got %d", balance)
	}
}

func TestTotalBalance(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(123456))

	total, err := repo.TotalBalance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 123456 {
		t.Errorf("expected total=123456, got %d", total)
	}
}

func TestTransfer_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	from := testAddr("alice")
	to := testAddr("vault")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").
		WithArgs(from.String(), int64(500)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(to.String(), int64(500)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transfer(context.Background(), from, to, 500, ledger.SignerAuthority{Identity: from})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransfer_InsufficientFundsRollsBack(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	from := testAddr("alice")
	to := testAddr("vault")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").
		WithArgs(from.String(), int64(500)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // debit matched no row
	mock.ExpectRollback()

	err := repo.Transfer(context.Background(), from, to, 500, ledger.SignerAuthority{Identity: from})
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransfer_AmountPastSignedRange(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	from := testAddr("alice")
	to := testAddr("vault")

	// 1<<64-400 would reach the statements as -400, turning the debit's
	// balance guard into a tautology. It must be rejected before any SQL.
	amount := uint64(math.MaxUint64 - 399)

	err := repo.Transfer(context.Background(), from, to, amount, ledger.SignerAuthority{Identity: from})
	if !errors.Is(err, ledger.ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("oversized amount must not touch the database: %v", err)
	}
}

func TestTransfer_MaxInt64AmountAccepted(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	from := testAddr("alice")
	to := testAddr("vault")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").
		WithArgs(from.String(), int64(math.MaxInt64)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(to.String(), int64(math.MaxInt64)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transfer(context.Background(), from, to, math.MaxInt64, ledger.SignerAuthority{Identity: from})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransfer_UncoveredAuthority(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	from := testAddr("vault")
	to := testAddr("alice")

	// no SQL expectations: the authority check must fail first
	err := repo.Transfer(context.Background(), from, to, 1, ledger.SignerAuthority{Identity: to})
	if !errors.Is(err, ledger.ErrUnauthorizedTransfer) {
		t.Fatalf("expected ErrUnauthorizedTransfer, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("authority failure must not touch the database: %v", err)
	}
}

func TestTransfer_CreditErrorRollsBack(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	from := testAddr("alice")
	to := testAddr("vault")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").
		WithArgs(from.String(), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(errors.New("db network error"))
	mock.ExpectRollback()

	err := repo.Transfer(context.Background(), from, to, 100, ledger.SignerAuthority{Identity: from})
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected wrapped statement error, got %v", err)
	}
}

func TestTransfer_InsideCallerTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	from := testAddr("vault")
	to := testAddr("alice")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").
		WithArgs(from.String(), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(to.String(), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	// repo bound to the caller's transaction must not begin its own
	repo := &accountRepository{q: tx, logger: logger.Nop()}
	if err := repo.Transfer(context.Background(), from, to, 50, ledger.SignerAuthority{Identity: from}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
