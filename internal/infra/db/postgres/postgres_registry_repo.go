package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/domain/model"
	"purchase-registry/internal/domain/ports/repository"
)

const uniqueViolation = "23505"

// Ensure implementation satisfies the interface.
var _ repository.RegistryRepository = (*registryRepo)(nil)

type registryRepo struct {
	pool *pgxpool.Pool
}

func NewRegistryRepo(pool *pgxpool.Pool) repository.RegistryRepository {
	return &registryRepo{pool: pool}
}

func (r *registryRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.RegistryEntry, error) {
	const q = `
SELECT id, owner_id, code, created_at
  FROM purchase_registry
 WHERE code = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	var e model.RegistryEntry
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Code, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrReadDatabaseRow, err)
	}
	return &e, nil
}

// Insert relies on the UNIQUE(code) constraint; a conflicting row is never
// overwritten and is reported as domain.ErrAlreadyExists.
func (r *registryRepo) Insert(ctx context.Context, tx repository.Tx, e *model.RegistryEntry) error {
	const q = `
INSERT INTO purchase_registry (id, owner_id, code, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (code) DO NOTHING;
`
	tag, err := execSQL(ctx, r.pool, tx, q, e.ID, e.OwnerID, e.Code, e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *registryRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID string) ([]*model.RegistryEntry, error) {
	const q = `
SELECT id, owner_id, code, created_at
  FROM purchase_registry
 WHERE owner_id = $1
 ORDER BY created_at, id;
`
	rows, err := queryRows(ctx, r.pool, tx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RegistryEntry
	for rows.Next() {
		var e model.RegistryEntry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Code, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
