package repository

import (
	"context"
	"time"

	"municipal-benefits/internal/domain/model"
)

// InvoiceRepository is the port for invoice persistence.
type InvoiceRepository interface {
	Save(ctx context.Context, tx Tx, invoice *model.Invoice) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Invoice, error)
	// FindBySupplierAndPeriod returns the invoice covering exactly this
	// period for the supplier, or domain.ErrNotFound. Generation is
	// idempotent per (supplier, period).
	FindBySupplierAndPeriod(ctx context.Context, tx Tx, supplierID string, periodStart time.Time) (*model.Invoice, error)
	ListByTenantAndPeriod(ctx context.Context, tx Tx, tenantID string, periodStart time.Time) ([]*model.Invoice, error)
}
