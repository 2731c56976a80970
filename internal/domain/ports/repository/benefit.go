package repository

import (
	"context"

	"municipal-benefits/internal/domain/model"
)

// BenefitRepository is the port for benefit persistence.
type BenefitRepository interface {
	Save(ctx context.Context, tx Tx, benefit *model.Benefit) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Benefit, error)
	ListByTenant(ctx context.Context, tx Tx, tenantID string) ([]*model.Benefit, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
}

// GrantRepository is the port for grant persistence.
type GrantRepository interface {
	Save(ctx context.Context, tx Tx, grant *model.Grant) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Grant, error)
	ListByTenant(ctx context.Context, tx Tx, tenantID string, status model.GrantStatus) ([]*model.Grant, error)
	// SumApprovedByBenefit totals approved+paid grant amounts against one
	// benefit, used for budget checks.
	SumApprovedByBenefit(ctx context.Context, tx Tx, benefitID string) (int64, error)
}
