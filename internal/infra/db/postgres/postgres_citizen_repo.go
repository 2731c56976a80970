package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// Ensure implementations satisfy the interfaces.
var (
	_ repository.CitizenRepository      = (*citizenRepo)(nil)
	_ repository.CitizenGroupRepository = (*citizenGroupRepo)(nil)
)

type citizenRepo struct {
	pool *pgxpool.Pool
}

func NewCitizenRepo(pool *pgxpool.Pool) *citizenRepo {
	return &citizenRepo{pool: pool}
}

func (r *citizenRepo) Save(ctx context.Context, tx repository.Tx, c *model.Citizen) error {
	const q = `
INSERT INTO citizens (id, tenant_id, group_id, pass_number, birth_year, created_at, deleted_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  group_id=$3, pass_number=$4, birth_year=$5, deleted_at=$7;`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.TenantID, nullableStr(c.GroupID), c.PassNumber, c.BirthYear, c.CreatedAt, c.DeletedAt)
	if err != nil {
		// pass numbers are unique per tenant
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *citizenRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Citizen, error) {
	const q = `
SELECT id, tenant_id, COALESCE(group_id, ''), pass_number, birth_year, created_at, deleted_at
  FROM citizens
 WHERE id = $1 AND deleted_at IS NULL;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var c model.Citizen
	err = row.Scan(&c.ID, &c.TenantID, &c.GroupID, &c.PassNumber, &c.BirthYear, &c.CreatedAt, &c.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}

func (r *citizenRepo) CountByTenant(ctx context.Context, tx repository.Tx, tenantID string) (int, error) {
	const q = `SELECT COUNT(*) FROM citizens WHERE tenant_id = $1 AND deleted_at IS NULL;`
	row, err := pickRow(ctx, r.pool, tx, q, tenantID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *citizenRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE citizens SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type citizenGroupRepo struct {
	pool *pgxpool.Pool
}

func NewCitizenGroupRepo(pool *pgxpool.Pool) *citizenGroupRepo {
	return &citizenGroupRepo{pool: pool}
}

func (r *citizenGroupRepo) Save(ctx context.Context, tx repository.Tx, g *model.CitizenGroup) error {
	const q = `
INSERT INTO citizen_groups (id, tenant_id, name, created_at, updated_at, deleted_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  name=$3, updated_at=$5, deleted_at=$6;`
	_, err := execSQL(ctx, r.pool, tx, q, g.ID, g.TenantID, g.Name, g.CreatedAt, g.UpdatedAt, g.DeletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *citizenGroupRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.CitizenGroup, error) {
	const q = `
SELECT id, tenant_id, name, created_at, updated_at, deleted_at
  FROM citizen_groups
 WHERE id = $1 AND deleted_at IS NULL;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var g model.CitizenGroup
	err = row.Scan(&g.ID, &g.TenantID, &g.Name, &g.CreatedAt, &g.UpdatedAt, &g.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &g, nil
}

func (r *citizenGroupRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string) ([]*model.CitizenGroup, error) {
	const q = `
SELECT id, tenant_id, name, created_at, updated_at, deleted_at
  FROM citizen_groups
 WHERE tenant_id = $1 AND deleted_at IS NULL
 ORDER BY name ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.CitizenGroup
	for rows.Next() {
		var g model.CitizenGroup
		if err := rows.Scan(&g.ID, &g.TenantID, &g.Name, &g.CreatedAt, &g.UpdatedAt, &g.DeletedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *citizenGroupRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE citizen_groups SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
