package model

import (
	"time"

	"municipal-benefits/internal/domain"
)

// Tenant is a municipality instance scoping suppliers, citizens and offers.
// The creditor fields identify the municipality as the paying party in SEPA
// exports.
type Tenant struct {
	ID           string
	Name         string
	Slug         string
	ContactEmail string
	CreditorName string
	CreditorIBAN string
	CreditorBIC  string
	Timezone     string // IANA name, empty means UTC
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // soft delete
}

func (t *Tenant) IsZero() bool { return t == nil || t.ID == "" }

// Location resolves the tenant time zone, falling back to UTC when unset or
// unparseable. Frequency-of-use windows are evaluated in this location.
func (t *Tenant) Location() *time.Location {
	if t == nil || t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewTenant validates and constructs a tenant.
func NewTenant(id, name, slug, contactEmail string) (*Tenant, error) {
	if id == "" || name == "" || slug == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Tenant{
		ID:           id,
		Name:         name,
		Slug:         slug,
		ContactEmail: contactEmail,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
