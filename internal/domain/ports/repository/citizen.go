package repository

import (
	"context"

	"municipal-benefits/internal/domain/model"
)

// CitizenRepository is the port for citizen (passholder) persistence.
type CitizenRepository interface {
	Save(ctx context.Context, tx Tx, citizen *model.Citizen) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Citizen, error)
	CountByTenant(ctx context.Context, tx Tx, tenantID string) (int, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
}

// CitizenGroupRepository is the port for citizen-group persistence.
type CitizenGroupRepository interface {
	Save(ctx context.Context, tx Tx, group *model.CitizenGroup) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.CitizenGroup, error)
	ListByTenant(ctx context.Context, tx Tx, tenantID string) ([]*model.CitizenGroup, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
}
