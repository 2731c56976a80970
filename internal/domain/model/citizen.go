package model

import (
	"time"

	"municipal-benefits/internal/domain"
)

// CitizenGroup is a tenant-scoped eligibility group ("students", "seniors").
type CitizenGroup struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewCitizenGroup validates and constructs a group.
func NewCitizenGroup(id, tenantID, name string) (*CitizenGroup, error) {
	if id == "" || tenantID == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &CitizenGroup{ID: id, TenantID: tenantID, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// Citizen is a passholder belonging to a tenant and a citizen group.
// Only the birth year is stored; age restrictions never need more.
type Citizen struct {
	ID         string
	TenantID   string
	GroupID    string
	PassNumber string
	BirthYear  int
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

func (c *Citizen) IsZero() bool { return c == nil || c.ID == "" }

// AgeAt returns the citizen age in the year of t.
func (c *Citizen) AgeAt(t time.Time) int {
	if c.BirthYear <= 0 {
		return 0
	}
	return t.Year() - c.BirthYear
}

// NewCitizen validates and constructs a citizen.
func NewCitizen(id, tenantID, groupID, passNumber string, birthYear int) (*Citizen, error) {
	if id == "" || tenantID == "" || passNumber == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Citizen{
		ID:         id,
		TenantID:   tenantID,
		GroupID:    groupID,
		PassNumber: passNumber,
		BirthYear:  birthYear,
		CreatedAt:  time.Now(),
	}, nil
}
