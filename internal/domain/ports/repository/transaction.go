package repository

import (
	"context"
	"time"

	"municipal-benefits/internal/domain/model"
)

// OfferTransactionRepository is the port for the append-only redemption
// ledger. There is deliberately no update or delete.
type OfferTransactionRepository interface {
	Insert(ctx context.Context, tx Tx, txn *model.OfferTransaction) error
	// FindLastByCode returns the most recent transaction for a code, or
	// domain.ErrNotFound when the code was never redeemed. Because codes are
	// unique per (citizen, offer), this is the frequency-cap lookup.
	FindLastByCode(ctx context.Context, tx Tx, codeID string) (*model.OfferTransaction, error)
	// SumBySupplierAndPeriod aggregates count and total amount of a
	// supplier's transactions in [from, to) for invoicing.
	SumBySupplierAndPeriod(ctx context.Context, tx Tx, supplierID string, from, to time.Time) (count int, totalCents int64, err error)
	// SumByTenantSince totals redemption amounts across a tenant for stats.
	SumByTenantSince(ctx context.Context, tx Tx, tenantID string, since time.Time) (int64, error)
}
