// File: internal/usecase/benefit_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// Compile-time check
var _ BenefitUseCase = (*benefitUC)(nil)

// BenefitUseCase manages tenant benefits and the grants drawn against them.
type BenefitUseCase interface {
	CreateBenefit(ctx context.Context, caller model.Principal, groupID, name string, budgetCents int64) (*model.Benefit, error)
	ListBenefits(ctx context.Context, caller model.Principal) ([]*model.Benefit, error)
	DeleteBenefit(ctx context.Context, caller model.Principal, id string) error
	// CreateGrant refuses grants that would overrun the benefit budget.
	CreateGrant(ctx context.Context, caller model.Principal, benefitID, citizenID string, amountCents int64) (*model.Grant, error)
	ApproveGrant(ctx context.Context, caller model.Principal, id string) (*model.Grant, error)
	PayGrant(ctx context.Context, caller model.Principal, id string) (*model.Grant, error)
	ListGrants(ctx context.Context, caller model.Principal, status model.GrantStatus) ([]*model.Grant, error)
}

type benefitUC struct {
	benefits repository.BenefitRepository
	grants   repository.GrantRepository
	log      *zerolog.Logger
}

func NewBenefitUseCase(benefits repository.BenefitRepository, grants repository.GrantRepository, logger *zerolog.Logger) *benefitUC {
	return &benefitUC{benefits: benefits, grants: grants, log: logger}
}

func (u *benefitUC) CreateBenefit(ctx context.Context, caller model.Principal, groupID, name string, budgetCents int64) (*model.Benefit, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	b, err := model.NewBenefit(uuid.NewString(), caller.TenantID, groupID, name, budgetCents)
	if err != nil {
		return nil, err
	}
	if err := u.benefits.Save(ctx, nil, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (u *benefitUC) ListBenefits(ctx context.Context, caller model.Principal) ([]*model.Benefit, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	return u.benefits.ListByTenant(ctx, nil, caller.TenantID)
}

func (u *benefitUC) DeleteBenefit(ctx context.Context, caller model.Principal, id string) error {
	b, err := u.ownBenefit(ctx, caller, id)
	if err != nil {
		return err
	}
	return u.benefits.SoftDelete(ctx, nil, b.ID)
}

func (u *benefitUC) CreateGrant(ctx context.Context, caller model.Principal, benefitID, citizenID string, amountCents int64) (*model.Grant, error) {
	b, err := u.ownBenefit(ctx, caller, benefitID)
	if err != nil {
		return nil, err
	}
	committed, err := u.grants.SumApprovedByBenefit(ctx, nil, b.ID)
	if err != nil {
		return nil, err
	}
	if committed+amountCents > b.BudgetCents {
		return nil, domain.ErrInvalidArgument
	}
	g, err := model.NewGrant(uuid.NewString(), caller.TenantID, b.ID, citizenID, amountCents)
	if err != nil {
		return nil, err
	}
	if err := u.grants.Save(ctx, nil, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (u *benefitUC) ApproveGrant(ctx context.Context, caller model.Principal, id string) (*model.Grant, error) {
	return u.decideGrant(ctx, caller, id, (*model.Grant).Approve)
}

func (u *benefitUC) PayGrant(ctx context.Context, caller model.Principal, id string) (*model.Grant, error) {
	return u.decideGrant(ctx, caller, id, func(g *model.Grant) error { return g.MarkPaid(time.Now()) })
}

func (u *benefitUC) ListGrants(ctx context.Context, caller model.Principal, status model.GrantStatus) ([]*model.Grant, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	return u.grants.ListByTenant(ctx, nil, caller.TenantID, status)
}

func (u *benefitUC) ownBenefit(ctx context.Context, caller model.Principal, id string) (*model.Benefit, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	b, err := u.benefits.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && b.TenantID != caller.TenantID {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (u *benefitUC) decideGrant(ctx context.Context, caller model.Principal, id string, transition func(*model.Grant) error) (*model.Grant, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	g, err := u.grants.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && g.TenantID != caller.TenantID {
		return nil, domain.ErrNotFound
	}
	if err := transition(g); err != nil {
		return nil, err
	}
	if err := u.grants.Save(ctx, nil, g); err != nil {
		return nil, err
	}
	u.log.Info().Str("grant_id", g.ID).Str("status", string(g.Status)).Msg("grant decided")
	return g, nil
}
