// File: internal/usecase/supplier_uc.go
package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// Compile-time check
var _ SupplierUseCase = (*supplierUC)(nil)

type SupplierUseCase interface {
	Register(ctx context.Context, caller model.Principal, name, email, iban string) (*model.Supplier, error)
	Get(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error)
	List(ctx context.Context, caller model.Principal, status model.SupplierStatus) ([]*model.Supplier, error)
	Approve(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error)
	Reject(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error)
	Delete(ctx context.Context, caller model.Principal, id string) error
}

type supplierUC struct {
	suppliers repository.SupplierRepository
	log       *zerolog.Logger
}

func NewSupplierUseCase(suppliers repository.SupplierRepository, logger *zerolog.Logger) *supplierUC {
	return &supplierUC{suppliers: suppliers, log: logger}
}

func (u *supplierUC) Register(ctx context.Context, caller model.Principal, name, email, iban string) (*model.Supplier, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	s, err := model.NewSupplier(uuid.NewString(), caller.TenantID, name, email, iban)
	if err != nil {
		return nil, err
	}
	if err := u.suppliers.Save(ctx, nil, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (u *supplierUC) Get(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error) {
	s, err := u.suppliers.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && s.TenantID != caller.TenantID && s.ID != caller.SubjectID {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (u *supplierUC) List(ctx context.Context, caller model.Principal, status model.SupplierStatus) ([]*model.Supplier, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	return u.suppliers.ListByTenant(ctx, nil, caller.TenantID, status)
}

func (u *supplierUC) Approve(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error) {
	return u.decide(ctx, caller, id, (*model.Supplier).Approve)
}

func (u *supplierUC) Reject(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error) {
	return u.decide(ctx, caller, id, (*model.Supplier).Reject)
}

func (u *supplierUC) decide(ctx context.Context, caller model.Principal, id string, transition func(*model.Supplier) error) (*model.Supplier, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	s, err := u.suppliers.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && s.TenantID != caller.TenantID {
		return nil, domain.ErrNotFound
	}
	if err := transition(s); err != nil {
		return nil, err
	}
	if err := u.suppliers.Save(ctx, nil, s); err != nil {
		return nil, err
	}
	u.log.Info().Str("supplier_id", s.ID).Str("status", string(s.Status)).Msg("supplier decided")
	return s, nil
}

func (u *supplierUC) Delete(ctx context.Context, caller model.Principal, id string) error {
	if _, err := u.decideTarget(ctx, caller, id); err != nil {
		return err
	}
	return u.suppliers.SoftDelete(ctx, nil, id)
}

func (u *supplierUC) decideTarget(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	s, err := u.suppliers.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && s.TenantID != caller.TenantID {
		return nil, domain.ErrNotFound
	}
	return s, nil
}
