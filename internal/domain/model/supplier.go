package model

import (
	"time"

	"municipal-benefits/internal/domain"
)

type SupplierStatus string

const (
	SupplierStatusPending  SupplierStatus = "pending"
	SupplierStatusApproved SupplierStatus = "approved"
	SupplierStatusRejected SupplierStatus = "rejected"
)

// Supplier is a merchant publishing offers within one tenant. The IBAN is
// the reimbursement account used on invoices and SEPA exports.
type Supplier struct {
	ID           string
	TenantID     string
	Name         string
	Email        string
	IBAN         string
	Status       SupplierStatus
	WorkingHours string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (s *Supplier) IsZero() bool { return s == nil || s.ID == "" }

// Approve moves a pending supplier to approved. Transitions are monotonic.
func (s *Supplier) Approve() error {
	if s.Status != SupplierStatusPending {
		return domain.ErrInvalidTransition
	}
	s.Status = SupplierStatusApproved
	s.UpdatedAt = time.Now()
	return nil
}

// Reject moves a pending supplier to rejected.
func (s *Supplier) Reject() error {
	if s.Status != SupplierStatusPending {
		return domain.ErrInvalidTransition
	}
	s.Status = SupplierStatusRejected
	s.UpdatedAt = time.Now()
	return nil
}

// NewSupplier validates and constructs a pending supplier.
func NewSupplier(id, tenantID, name, email, iban string) (*Supplier, error) {
	if id == "" || tenantID == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Supplier{
		ID:        id,
		TenantID:  tenantID,
		Name:      name,
		Email:     email,
		IBAN:      iban,
		Status:    SupplierStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
