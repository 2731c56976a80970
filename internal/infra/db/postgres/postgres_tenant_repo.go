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

// Ensure implementation satisfies the interface.
var _ repository.TenantRepository = (*tenantRepo)(nil)

type tenantRepo struct {
	pool *pgxpool.Pool
}

func NewTenantRepo(pool *pgxpool.Pool) *tenantRepo {
	return &tenantRepo{pool: pool}
}

const tenantColumns = `id, name, slug, contact_email, creditor_name, creditor_iban, creditor_bic, timezone, active, created_at, updated_at, deleted_at`

func scanTenant(row rowScanner) (*model.Tenant, error) {
	var t model.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.ContactEmail, &t.CreditorName, &t.CreditorIBAN, &t.CreditorBIC,
		&t.Timezone, &t.Active, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &t, nil
}

func (r *tenantRepo) Save(ctx context.Context, tx repository.Tx, t *model.Tenant) error {
	const q = `
INSERT INTO tenants (` + tenantColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  name=$2, slug=$3, contact_email=$4, creditor_name=$5, creditor_iban=$6, creditor_bic=$7,
  timezone=$8, active=$9, updated_at=$11, deleted_at=$12;`
	_, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.Name, t.Slug, t.ContactEmail, t.CreditorName, t.CreditorIBAN, t.CreditorBIC,
		t.Timezone, t.Active, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	)
	if err != nil {
		// slug carries a unique index
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *tenantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 AND deleted_at IS NULL;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanTenant(row)
}

func (r *tenantRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE deleted_at IS NULL ORDER BY name ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *tenantRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE tenants SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
