// File: internal/usecase/tenant_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// TenantInput carries the editable tenant fields.
type TenantInput struct {
	Name         string
	Slug         string
	ContactEmail string
	CreditorName string
	CreditorIBAN string
	CreditorBIC  string
	Timezone     string
}

// Compile-time check
var _ TenantUseCase = (*tenantUC)(nil)

type TenantUseCase interface {
	Create(ctx context.Context, caller model.Principal, in TenantInput) (*model.Tenant, error)
	Get(ctx context.Context, caller model.Principal, id string) (*model.Tenant, error)
	List(ctx context.Context, caller model.Principal) ([]*model.Tenant, error)
	Update(ctx context.Context, caller model.Principal, id string, in TenantInput) (*model.Tenant, error)
	Delete(ctx context.Context, caller model.Principal, id string) error
}

type tenantUC struct {
	tenants repository.TenantRepository
}

func NewTenantUseCase(tenants repository.TenantRepository) *tenantUC {
	return &tenantUC{tenants: tenants}
}

func (u *tenantUC) Create(ctx context.Context, caller model.Principal, in TenantInput) (*model.Tenant, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	t, err := model.NewTenant(uuid.NewString(), in.Name, in.Slug, in.ContactEmail)
	if err != nil {
		return nil, err
	}
	applyTenantInput(t, in)
	if err := u.tenants.Save(ctx, nil, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *tenantUC) Get(ctx context.Context, caller model.Principal, id string) (*model.Tenant, error) {
	if !caller.IsAdmin() && caller.TenantID != id {
		return nil, domain.ErrForbidden
	}
	return u.tenants.FindByID(ctx, nil, id)
}

func (u *tenantUC) List(ctx context.Context, caller model.Principal) ([]*model.Tenant, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return u.tenants.ListAll(ctx, nil)
}

func (u *tenantUC) Update(ctx context.Context, caller model.Principal, id string, in TenantInput) (*model.Tenant, error) {
	if !caller.IsAdmin() && caller.TenantID != id {
		return nil, domain.ErrForbidden
	}
	t, err := u.tenants.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		t.Name = in.Name
	}
	applyTenantInput(t, in)
	t.UpdatedAt = time.Now()
	if err := u.tenants.Save(ctx, nil, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *tenantUC) Delete(ctx context.Context, caller model.Principal, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	return u.tenants.SoftDelete(ctx, nil, id)
}

func applyTenantInput(t *model.Tenant, in TenantInput) {
	if in.ContactEmail != "" {
		t.ContactEmail = in.ContactEmail
	}
	if in.CreditorName != "" {
		t.CreditorName = in.CreditorName
	}
	if in.CreditorIBAN != "" {
		t.CreditorIBAN = in.CreditorIBAN
	}
	if in.CreditorBIC != "" {
		t.CreditorBIC = in.CreditorBIC
	}
	if in.Timezone != "" {
		t.Timezone = in.Timezone
	}
}
