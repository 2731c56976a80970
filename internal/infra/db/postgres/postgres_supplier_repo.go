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
var _ repository.SupplierRepository = (*supplierRepo)(nil)

type supplierRepo struct {
	pool *pgxpool.Pool
}

func NewSupplierRepo(pool *pgxpool.Pool) *supplierRepo {
	return &supplierRepo{pool: pool}
}

const supplierColumns = `id, tenant_id, name, email, iban, status, working_hours, created_at, updated_at, deleted_at`

func scanSupplier(row rowScanner) (*model.Supplier, error) {
	var s model.Supplier
	err := row.Scan(
		&s.ID, &s.TenantID, &s.Name, &s.Email, &s.IBAN, &s.Status, &s.WorkingHours,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}

func (r *supplierRepo) Save(ctx context.Context, tx repository.Tx, s *model.Supplier) error {
	const q = `
INSERT INTO suppliers (` + supplierColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  name=$3, email=$4, iban=$5, status=$6, working_hours=$7, updated_at=$9, deleted_at=$10;`
	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.TenantID, s.Name, s.Email, s.IBAN, s.Status, s.WorkingHours, s.CreatedAt, s.UpdatedAt, s.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *supplierRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Supplier, error) {
	const q = `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1 AND deleted_at IS NULL;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanSupplier(row)
}

func (r *supplierRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string, status model.SupplierStatus) ([]*model.Supplier, error) {
	q := `SELECT ` + supplierColumns + ` FROM suppliers WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []interface{}{tenantID}
	if status != "" {
		q += ` AND status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY name ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *supplierRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE suppliers SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
