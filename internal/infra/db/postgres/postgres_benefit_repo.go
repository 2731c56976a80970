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
	_ repository.BenefitRepository = (*benefitRepo)(nil)
	_ repository.GrantRepository   = (*grantRepo)(nil)
)

type benefitRepo struct {
	pool *pgxpool.Pool
}

func NewBenefitRepo(pool *pgxpool.Pool) *benefitRepo {
	return &benefitRepo{pool: pool}
}

func (r *benefitRepo) Save(ctx context.Context, tx repository.Tx, b *model.Benefit) error {
	const q = `
INSERT INTO benefits (id, tenant_id, group_id, name, budget_cents, active, created_at, updated_at, deleted_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  group_id=$3, name=$4, budget_cents=$5, active=$6, updated_at=$8, deleted_at=$9;`
	_, err := execSQL(ctx, r.pool, tx, q,
		b.ID, b.TenantID, nullableStr(b.GroupID), b.Name, b.BudgetCents, b.Active, b.CreatedAt, b.UpdatedAt, b.DeletedAt,
	)
	return err
}

func (r *benefitRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Benefit, error) {
	const q = `
SELECT id, tenant_id, COALESCE(group_id, ''), name, budget_cents, active, created_at, updated_at, deleted_at
  FROM benefits
 WHERE id = $1 AND deleted_at IS NULL;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var b model.Benefit
	err = row.Scan(&b.ID, &b.TenantID, &b.GroupID, &b.Name, &b.BudgetCents, &b.Active, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &b, nil
}

func (r *benefitRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string) ([]*model.Benefit, error) {
	const q = `
SELECT id, tenant_id, COALESCE(group_id, ''), name, budget_cents, active, created_at, updated_at, deleted_at
  FROM benefits
 WHERE tenant_id = $1 AND deleted_at IS NULL
 ORDER BY name ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Benefit
	for rows.Next() {
		var b model.Benefit
		if err := rows.Scan(&b.ID, &b.TenantID, &b.GroupID, &b.Name, &b.BudgetCents, &b.Active, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *benefitRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE benefits SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type grantRepo struct {
	pool *pgxpool.Pool
}

func NewGrantRepo(pool *pgxpool.Pool) *grantRepo {
	return &grantRepo{pool: pool}
}

func (r *grantRepo) Save(ctx context.Context, tx repository.Tx, g *model.Grant) error {
	const q = `
INSERT INTO grants (id, tenant_id, benefit_id, citizen_id, amount_cents, status, created_at, paid_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  status=$6, paid_at=$8;`
	_, err := execSQL(ctx, r.pool, tx, q, g.ID, g.TenantID, g.BenefitID, g.CitizenID, g.AmountCents, g.Status, g.CreatedAt, g.PaidAt)
	return err
}

func (r *grantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Grant, error) {
	const q = `
SELECT id, tenant_id, benefit_id, citizen_id, amount_cents, status, created_at, paid_at
  FROM grants
 WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var g model.Grant
	err = row.Scan(&g.ID, &g.TenantID, &g.BenefitID, &g.CitizenID, &g.AmountCents, &g.Status, &g.CreatedAt, &g.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &g, nil
}

func (r *grantRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string, status model.GrantStatus) ([]*model.Grant, error) {
	q := `
SELECT id, tenant_id, benefit_id, citizen_id, amount_cents, status, created_at, paid_at
  FROM grants
 WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if status != "" {
		q += ` AND status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Grant
	for rows.Next() {
		var g model.Grant
		if err := rows.Scan(&g.ID, &g.TenantID, &g.BenefitID, &g.CitizenID, &g.AmountCents, &g.Status, &g.CreatedAt, &g.PaidAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *grantRepo) SumApprovedByBenefit(ctx context.Context, tx repository.Tx, benefitID string) (int64, error) {
	const q = `
SELECT COALESCE(SUM(amount_cents), 0)
  FROM grants
 WHERE benefit_id = $1 AND status IN ('approved', 'paid');`
	row, err := pickRow(ctx, r.pool, tx, q, benefitID)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return total, nil
}
