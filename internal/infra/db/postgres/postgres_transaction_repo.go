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
var _ repository.OfferTransactionRepository = (*offerTransactionRepo)(nil)

type offerTransactionRepo struct {
	pool *pgxpool.Pool
}

func NewOfferTransactionRepo(pool *pgxpool.Pool) *offerTransactionRepo {
	return &offerTransactionRepo{pool: pool}
}

// Insert appends one redemption event. The ledger has no update path.
func (r *offerTransactionRepo) Insert(ctx context.Context, tx repository.Tx, txn *model.OfferTransaction) error {
	const q = `
INSERT INTO offer_transactions (id, code_id, amount_cents, created_at)
VALUES ($1,$2,$3,$4);`
	_, err := execSQL(ctx, r.pool, tx, q, txn.ID, txn.CodeID, txn.AmountCents, txn.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *offerTransactionRepo) FindLastByCode(ctx context.Context, tx repository.Tx, codeID string) (*model.OfferTransaction, error) {
	const q = `
SELECT id, code_id, amount_cents, created_at
  FROM offer_transactions
 WHERE code_id = $1
 ORDER BY created_at DESC
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, codeID)
	if err != nil {
		return nil, err
	}
	var t model.OfferTransaction
	err = row.Scan(&t.ID, &t.CodeID, &t.AmountCents, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &t, nil
}

func (r *offerTransactionRepo) SumBySupplierAndPeriod(ctx context.Context, tx repository.Tx, supplierID string, from, to time.Time) (int, int64, error) {
	const q = `
SELECT COUNT(*), COALESCE(SUM(t.amount_cents), 0)
  FROM offer_transactions t
  JOIN discount_codes c ON c.id = t.code_id
  JOIN offers o ON o.id = c.offer_id
 WHERE o.supplier_id = $1 AND t.created_at >= $2 AND t.created_at < $3;`
	row, err := pickRow(ctx, r.pool, tx, q, supplierID, from, to)
	if err != nil {
		return 0, 0, err
	}
	var count int
	var total int64
	if err := row.Scan(&count, &total); err != nil {
		return 0, 0, domain.ErrReadDatabaseRow
	}
	return count, total, nil
}

func (r *offerTransactionRepo) SumByTenantSince(ctx context.Context, tx repository.Tx, tenantID string, since time.Time) (int64, error) {
	const q = `
SELECT COALESCE(SUM(t.amount_cents), 0)
  FROM offer_transactions t
  JOIN discount_codes c ON c.id = t.code_id
  JOIN offers o ON o.id = c.offer_id
 WHERE o.tenant_id = $1 AND t.created_at >= $2;`
	row, err := pickRow(ctx, r.pool, tx, q, tenantID, since)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return total, nil
}
