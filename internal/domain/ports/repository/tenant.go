package repository

import (
	"context"

	"municipal-benefits/internal/domain/model"
)

// TenantRepository is the port for tenant persistence. Delete is soft.
type TenantRepository interface {
	Save(ctx context.Context, tx Tx, tenant *model.Tenant) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Tenant, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Tenant, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
}
