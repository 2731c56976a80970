package model

import (
	"strings"
	"time"

	"municipal-benefits/internal/domain"
)

// DiscountCode is a citizen's claim on an offer: at most one code exists per
// (citizen, offer) pair, enforced by a database unique constraint. Codes are
// deactivated, never deleted.
type DiscountCode struct {
	ID            string
	Code          string // stored uppercase, matched case-insensitively
	CitizenID     string
	OfferID       string
	Active        bool
	CreatedAt     time.Time
	DeactivatedAt *time.Time
}

func (c *DiscountCode) IsZero() bool { return c == nil || c.ID == "" }

// Deactivate retires the code once consumed or once the offer expired.
func (c *DiscountCode) Deactivate(at time.Time) {
	if !c.Active {
		return
	}
	c.Active = false
	c.DeactivatedAt = &at
}

// NewDiscountCode validates and constructs an active code.
func NewDiscountCode(id, code, citizenID, offerID string) (*DiscountCode, error) {
	if id == "" || code == "" || citizenID == "" || offerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &DiscountCode{
		ID:        id,
		Code:      strings.ToUpper(code),
		CitizenID: citizenID,
		OfferID:   offerID,
		Active:    true,
		CreatedAt: time.Now(),
	}, nil
}

// RedeemableCode is the eagerly-populated view resolved by code lookup: the
// code, its offer (restriction included) and the tenant time zone needed for
// frequency-window math. No lazy loading happens after this read.
type RedeemableCode struct {
	Code           DiscountCode
	Offer          Offer
	TenantTimezone string
}

// Location resolves the tenant time zone of the view, falling back to UTC.
func (rc *RedeemableCode) Location() *time.Location {
	if rc == nil || rc.TenantTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(rc.TenantTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
