package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aminovt/solvault/internal/ledger"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/models"
	"github.com/jackc/pgerrcode"
)

// vaultStateRepository is the PostgreSQL-backed implementation of
// [VaultStateRepository] over the "vault_states" table.
type vaultStateRepository struct {
	logger *logger.Logger
	q      querier
}

// NewVaultStateRepository constructs a [VaultStateRepository] backed by
// the provided database connection and logger.
func NewVaultStateRepository(db *DB, logger *logger.Logger) VaultStateRepository {
	logger.Debug().Msg("creating vault state repository")
	return &vaultStateRepository{
		q:      db.DB,
		logger: logger,
	}
}

// Get implements [ledger.StateRepository].
//
// Error handling:
//   - no row for the owner → [ledger.ErrVaultNotFound].
//   - scan failure → wrapped scan error.
func (r *vaultStateRepository) Get(ctx context.Context, owner models.Address) (models.VaultState, error) {
	log := logger.FromContext(ctx)

	row := r.q.QueryRowContext(ctx, findStateByOwner, owner.String())

	state, err := scanVaultState(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VaultState{}, ledger.ErrVaultNotFound
		}
		log.Err(err).Str("func", "*vaultStateRepository.Get").Msg("error: scanning error")
		return models.VaultState{}, err
	}

	return state, nil
}

// Create implements [ledger.StateRepository] and returns the persisted
// record with its server-assigned CreatedAt.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ledger.ErrAlreadyInitialized].
//   - any other driver-level error → wrapped as "unexpected DB error".
func (r *vaultStateRepository) Create(ctx context.Context, state models.VaultState) (models.VaultState, error) {
	log := logger.FromContext(ctx)

	row := r.q.QueryRowContext(ctx, createState,
		state.Address.String(),
		state.Owner.String(),
		int16(state.VaultBump),
		int16(state.StateBump),
		int64(state.RentDeposit),
	)

	if err := row.Scan(&state.CreatedAt); err != nil {
		log.Err(err).Str("func", "*vaultStateRepository.Create").Msg("error: insert failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.VaultState{}, ledger.ErrAlreadyInitialized
		default:
			return models.VaultState{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return state, nil
}

// Delete implements [ledger.StateRepository].
//
// Error handling:
//   - zero rows affected → [ledger.ErrVaultNotFound].
func (r *vaultStateRepository) Delete(ctx context.Context, owner models.Address) error {
	log := logger.FromContext(ctx)

	res, err := r.q.ExecContext(ctx, deleteStateByOwner, owner.String())
	if err != nil {
		log.Err(err).Str("func", "*vaultStateRepository.Delete").Msg("error: delete failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ledger.ErrVaultNotFound
	}

	return nil
}

// List implements [VaultStateRepository]. The query is built dynamically
// so the audit worker can page through records of any volume.
func (r *vaultStateRepository) List(ctx context.Context, offset, limit uint64) ([]models.VaultState, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.
		Select("address", "owner", "vault_bump", "state_bump", "rent_deposit", "created_at").
		From(models.VaultState{}.TableName()).
		OrderBy("created_at", "address").
		Offset(offset).
		Limit(limit).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*vaultStateRepository.List").Msg("error: list query failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var states []models.VaultState
	for rows.Next() {
		state, err := scanVaultState(rows.Scan)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return states, nil
}

// scanVaultState maps one vault_states row into a model, decoding the
// base58 address columns and narrowing the SMALLINT bumps.
func scanVaultState(scan func(dest ...any) error) (models.VaultState, error) {
	var (
		state     models.VaultState
		address   string
		owner     string
		vaultBump int16
		stateBump int16
		rent      int64
	)

	if err := scan(&address, &owner, &vaultBump, &stateBump, &rent, &state.CreatedAt); err != nil {
		return models.VaultState{}, err
	}

	addr, err := models.ParseAddress(address)
	if err != nil {
		return models.VaultState{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	ownerAddr, err := models.ParseAddress(owner)
	if err != nil {
		return models.VaultState{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	state.Address = addr
	state.Owner = ownerAddr
	state.VaultBump = uint8(vaultBump)
	state.StateBump = uint8(stateBump)
	state.RentDeposit = uint64(rent)

	return state, nil
}
