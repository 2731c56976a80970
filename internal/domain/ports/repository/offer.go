package repository

import (
	"context"
	"time"

	"municipal-benefits/internal/domain/model"
)

// OfferRepository is the port for offer persistence. Reads always return the
// offer with its restriction populated; there is no lazy association.
type OfferRepository interface {
	Save(ctx context.Context, tx Tx, offer *model.Offer) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Offer, error)
	ListBySupplier(ctx context.Context, tx Tx, supplierID string) ([]*model.Offer, error)
	ListByTenantAndStatus(ctx context.Context, tx Tx, tenantID string, status model.OfferStatus, offset, limit int) ([]*model.Offer, error)
	// ExpireDue flips ACTIVE offers whose expiry passed to EXPIRED and
	// returns how many were touched.
	ExpireDue(ctx context.Context, tx Tx, now time.Time) (int, error)
	CountByStatus(ctx context.Context, tx Tx, tenantID string) (map[model.OfferStatus]int, error)
}
