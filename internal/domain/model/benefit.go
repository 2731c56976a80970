package model

import (
	"time"

	"municipal-benefits/internal/domain"
)

// Benefit links a citizen group to a tenant budget that grants draw from.
type Benefit struct {
	ID          string
	TenantID    string
	GroupID     string
	Name        string
	BudgetCents int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewBenefit validates and constructs a benefit.
func NewBenefit(id, tenantID, groupID, name string, budgetCents int64) (*Benefit, error) {
	if id == "" || tenantID == "" || name == "" || budgetCents < 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Benefit{
		ID:          id,
		TenantID:    tenantID,
		GroupID:     groupID,
		Name:        name,
		BudgetCents: budgetCents,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type GrantStatus string

const (
	GrantStatusPending  GrantStatus = "pending"
	GrantStatusApproved GrantStatus = "approved"
	GrantStatusPaid     GrantStatus = "paid"
)

// Grant is a disbursement from a tenant benefit to a citizen.
type Grant struct {
	ID          string
	TenantID    string
	BenefitID   string
	CitizenID   string
	AmountCents int64
	Status      GrantStatus
	CreatedAt   time.Time
	PaidAt      *time.Time
}

// Approve moves a pending grant to approved.
func (g *Grant) Approve() error {
	if g.Status != GrantStatusPending {
		return domain.ErrInvalidTransition
	}
	g.Status = GrantStatusApproved
	return nil
}

// MarkPaid finalizes an approved grant after disbursement.
func (g *Grant) MarkPaid(at time.Time) error {
	if g.Status != GrantStatusApproved {
		return domain.ErrInvalidTransition
	}
	g.Status = GrantStatusPaid
	g.PaidAt = &at
	return nil
}

// NewGrant validates and constructs a pending grant.
func NewGrant(id, tenantID, benefitID, citizenID string, amountCents int64) (*Grant, error) {
	if id == "" || tenantID == "" || benefitID == "" || citizenID == "" || amountCents <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Grant{
		ID:          id,
		TenantID:    tenantID,
		BenefitID:   benefitID,
		CitizenID:   citizenID,
		AmountCents: amountCents,
		Status:      GrantStatusPending,
		CreatedAt:   time.Now(),
	}, nil
}
