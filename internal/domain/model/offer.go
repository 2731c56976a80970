package model

import (
	"time"

	"municipal-benefits/internal/domain"
)

type OfferType string

const (
	OfferTypePercentage OfferType = "percentage"
	OfferTypeBOGO       OfferType = "bogo"
	OfferTypeCredit     OfferType = "credit"
	OfferTypeFreeEntry  OfferType = "free_entry"
)

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusActive   OfferStatus = "active"
	OfferStatusRejected OfferStatus = "rejected"
	OfferStatusExpired  OfferStatus = "expired"
)

// Offer is a supplier-published promotion. Status transitions are monotonic:
// pending -> active|rejected, active -> expired; they never regress.
type Offer struct {
	ID          string
	TenantID    string
	SupplierID  string
	Title       string
	Description string
	Type        OfferType
	AmountCents int64 // default redemption amount; credit value for credit offers
	Percent     int   // discount percent for percentage offers
	Status      OfferStatus
	Active      bool
	StartAt     time.Time
	ExpiresAt   time.Time
	Lat         float64
	Lng         float64
	Restriction *Restriction // optional, eagerly loaded
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (o *Offer) IsZero() bool { return o == nil || o.ID == "" }

// Redeemable is the offer-state gate of the redemption pipeline.
func (o *Offer) Redeemable() bool {
	return o.Status == OfferStatusActive && o.Active
}

// Approve activates a pending offer.
func (o *Offer) Approve() error {
	if o.Status != OfferStatusPending {
		return domain.ErrInvalidTransition
	}
	o.Status = OfferStatusActive
	o.Active = true
	o.UpdatedAt = time.Now()
	return nil
}

// Reject refuses a pending offer.
func (o *Offer) Reject() error {
	if o.Status != OfferStatusPending {
		return domain.ErrInvalidTransition
	}
	o.Status = OfferStatusRejected
	o.Active = false
	o.UpdatedAt = time.Now()
	return nil
}

// Expire retires an active offer past its validity window.
func (o *Offer) Expire() error {
	if o.Status != OfferStatusActive {
		return domain.ErrInvalidTransition
	}
	o.Status = OfferStatusExpired
	o.Active = false
	o.UpdatedAt = time.Now()
	return nil
}

func validOfferType(t OfferType) bool {
	switch t {
	case OfferTypePercentage, OfferTypeBOGO, OfferTypeCredit, OfferTypeFreeEntry:
		return true
	}
	return false
}

// NewOffer validates and constructs a pending offer.
func NewOffer(id, tenantID, supplierID, title string, typ OfferType, amountCents int64, percent int, startAt, expiresAt time.Time) (*Offer, error) {
	if id == "" || tenantID == "" || supplierID == "" || title == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !validOfferType(typ) || amountCents < 0 || percent < 0 || percent > 100 {
		return nil, domain.ErrInvalidArgument
	}
	if !expiresAt.IsZero() && !startAt.IsZero() && expiresAt.Before(startAt) {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Offer{
		ID:          id,
		TenantID:    tenantID,
		SupplierID:  supplierID,
		Title:       title,
		Type:        typ,
		AmountCents: amountCents,
		Percent:     percent,
		Status:      OfferStatusPending,
		Active:      false,
		StartAt:     startAt,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
