// File: internal/usecase/citizen_uc.go
package usecase

import (
	"context"

	"github.com/google/uuid"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// Compile-time check
var _ CitizenUseCase = (*citizenUC)(nil)

// CitizenUseCase manages citizen groups and passholders for a tenant.
type CitizenUseCase interface {
	CreateGroup(ctx context.Context, caller model.Principal, name string) (*model.CitizenGroup, error)
	ListGroups(ctx context.Context, caller model.Principal) ([]*model.CitizenGroup, error)
	DeleteGroup(ctx context.Context, caller model.Principal, id string) error
	Register(ctx context.Context, caller model.Principal, groupID, passNumber string, birthYear int) (*model.Citizen, error)
	Remove(ctx context.Context, caller model.Principal, id string) error
}

type citizenUC struct {
	groups   repository.CitizenGroupRepository
	citizens repository.CitizenRepository
}

func NewCitizenUseCase(groups repository.CitizenGroupRepository, citizens repository.CitizenRepository) *citizenUC {
	return &citizenUC{groups: groups, citizens: citizens}
}

func (u *citizenUC) CreateGroup(ctx context.Context, caller model.Principal, name string) (*model.CitizenGroup, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	g, err := model.NewCitizenGroup(uuid.NewString(), caller.TenantID, name)
	if err != nil {
		return nil, err
	}
	if err := u.groups.Save(ctx, nil, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (u *citizenUC) ListGroups(ctx context.Context, caller model.Principal) ([]*model.CitizenGroup, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	return u.groups.ListByTenant(ctx, nil, caller.TenantID)
}

func (u *citizenUC) DeleteGroup(ctx context.Context, caller model.Principal, id string) error {
	if !caller.Allowed(model.RoleMunicipality) {
		return domain.ErrForbidden
	}
	g, err := u.groups.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && g.TenantID != caller.TenantID {
		return domain.ErrNotFound
	}
	return u.groups.SoftDelete(ctx, nil, id)
}

func (u *citizenUC) Register(ctx context.Context, caller model.Principal, groupID, passNumber string, birthYear int) (*model.Citizen, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	if groupID != "" {
		g, err := u.groups.FindByID(ctx, nil, groupID)
		if err != nil {
			return nil, err
		}
		if !caller.IsAdmin() && g.TenantID != caller.TenantID {
			return nil, domain.ErrNotFound
		}
	}
	c, err := model.NewCitizen(uuid.NewString(), caller.TenantID, groupID, passNumber, birthYear)
	if err != nil {
		return nil, err
	}
	if err := u.citizens.Save(ctx, nil, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *citizenUC) Remove(ctx context.Context, caller model.Principal, id string) error {
	if !caller.Allowed(model.RoleMunicipality) {
		return domain.ErrForbidden
	}
	c, err := u.citizens.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && c.TenantID != caller.TenantID {
		return domain.ErrNotFound
	}
	return u.citizens.SoftDelete(ctx, nil, id)
}
