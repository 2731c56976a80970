package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.InvoiceRepository = (*invoiceRepo)(nil)

type invoiceRepo struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepo(pool *pgxpool.Pool) *invoiceRepo {
	return &invoiceRepo{pool: pool}
}

const invoiceColumns = `id, tenant_id, supplier_id, number, period_start, period_end, transaction_count, total_cents, status, created_at, issued_at, paid_at`

func scanInvoice(row rowScanner) (*model.Invoice, error) {
	var inv model.Invoice
	err := row.Scan(
		&inv.ID, &inv.TenantID, &inv.SupplierID, &inv.Number, &inv.PeriodStart, &inv.PeriodEnd,
		&inv.TransactionCount, &inv.TotalCents, &inv.Status, &inv.CreatedAt, &inv.IssuedAt, &inv.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &inv, nil
}

func (r *invoiceRepo) Save(ctx context.Context, tx repository.Tx, inv *model.Invoice) error {
	const q = `
INSERT INTO invoices (` + invoiceColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  status=$9, issued_at=$11, paid_at=$12;`
	_, err := execSQL(ctx, r.pool, tx, q,
		inv.ID, inv.TenantID, inv.SupplierID, inv.Number, inv.PeriodStart, inv.PeriodEnd,
		inv.TransactionCount, inv.TotalCents, inv.Status, inv.CreatedAt, inv.IssuedAt, inv.PaidAt,
	)
	if err != nil {
		// the (supplier_id, period_start) unique index guards idempotency
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *invoiceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanInvoice(row)
}

func (r *invoiceRepo) FindBySupplierAndPeriod(ctx context.Context, tx repository.Tx, supplierID string, periodStart time.Time) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE supplier_id = $1 AND period_start = $2;`
	row, err := pickRow(ctx, r.pool, tx, q, supplierID, periodStart)
	if err != nil {
		return nil, err
	}
	return scanInvoice(row)
}

func (r *invoiceRepo) ListByTenantAndPeriod(ctx context.Context, tx repository.Tx, tenantID string, periodStart time.Time) ([]*model.Invoice, error) {
	const q = `
SELECT ` + invoiceColumns + `
  FROM invoices
 WHERE tenant_id = $1 AND period_start = $2
 ORDER BY number ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, tenantID, periodStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
