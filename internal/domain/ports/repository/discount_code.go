package repository

import (
	"context"

	"municipal-benefits/internal/domain/model"
)

// DiscountCodeRepository is the port for discount-code persistence.
type DiscountCodeRepository interface {
	// Save creates or updates a code. Insert maps a (citizen, offer) unique
	// violation to domain.ErrAlreadyExists.
	Save(ctx context.Context, tx Tx, code *model.DiscountCode) error
	// FindActiveForRedemption resolves a code string (case-insensitive) plus
	// the requesting supplier to the fully-populated redemption view: code,
	// offer with restriction, tenant time zone. Returns domain.ErrNotFound
	// when no active match belongs to that supplier.
	FindActiveForRedemption(ctx context.Context, tx Tx, code, supplierID string) (*model.RedeemableCode, error)
	// FindByCitizenAndOffer returns the citizen's code for an offer, active
	// or not, or domain.ErrNotFound.
	FindByCitizenAndOffer(ctx context.Context, tx Tx, citizenID, offerID string) (*model.DiscountCode, error)
	// Lock serializes concurrent redemptions of one code for the duration of
	// the surrounding transaction. Must be called with a live tx.
	Lock(ctx context.Context, tx Tx, codeID string) error
	// DeactivateForExpiredOffers retires active codes whose offer is expired
	// and returns the number of codes touched.
	DeactivateForExpiredOffers(ctx context.Context, tx Tx) (int, error)
}
