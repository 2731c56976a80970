package repository

import (
	"context"

	"municipal-benefits/internal/domain/model"
)

// SupplierRepository is the port for supplier persistence. Delete is soft.
type SupplierRepository interface {
	Save(ctx context.Context, tx Tx, supplier *model.Supplier) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Supplier, error)
	ListByTenant(ctx context.Context, tx Tx, tenantID string, status model.SupplierStatus) ([]*model.Supplier, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
}
