// File: internal/usecase/offer_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// CreateOfferInput carries the supplier-provided fields of a new offer.
type CreateOfferInput struct {
	Title       string
	Description string
	Type        model.OfferType
	AmountCents int64
	Percent     int
	StartAt     time.Time
	ExpiresAt   time.Time
	Lat         float64
	Lng         float64
	Restriction *model.Restriction
}

// Compile-time check
var _ OfferUseCase = (*offerUC)(nil)

type OfferUseCase interface {
	Create(ctx context.Context, caller model.Principal, in CreateOfferInput) (*model.Offer, error)
	Get(ctx context.Context, caller model.Principal, id string) (*model.Offer, error)
	ListMine(ctx context.Context, caller model.Principal) ([]*model.Offer, error)
	ListPending(ctx context.Context, caller model.Principal, offset, limit int) ([]*model.Offer, error)
	Approve(ctx context.Context, caller model.Principal, id string) (*model.Offer, error)
	Reject(ctx context.Context, caller model.Principal, id string) (*model.Offer, error)
	// ExpireDue is invoked by the expiry worker, not by callers.
	ExpireDue(ctx context.Context) (int, error)
}

type offerUC struct {
	offers repository.OfferRepository
	log    *zerolog.Logger
}

func NewOfferUseCase(offers repository.OfferRepository, logger *zerolog.Logger) *offerUC {
	return &offerUC{offers: offers, log: logger}
}

func (u *offerUC) Create(ctx context.Context, caller model.Principal, in CreateOfferInput) (*model.Offer, error) {
	if !caller.Allowed(model.RoleSupplier) {
		return nil, domain.ErrForbidden
	}
	offer, err := model.NewOffer(uuid.NewString(), caller.TenantID, caller.SubjectID, in.Title, in.Type, in.AmountCents, in.Percent, in.StartAt, in.ExpiresAt)
	if err != nil {
		return nil, err
	}
	offer.Description = in.Description
	offer.Lat, offer.Lng = in.Lat, in.Lng
	if in.Restriction != nil {
		if err := in.Restriction.Validate(); err != nil {
			return nil, err
		}
		r := *in.Restriction
		r.OfferID = offer.ID
		offer.Restriction = &r
	}
	if err := u.offers.Save(ctx, nil, offer); err != nil {
		return nil, err
	}
	u.log.Info().Str("offer_id", offer.ID).Str("supplier_id", caller.SubjectID).Msg("offer submitted")
	return offer, nil
}

func (u *offerUC) Get(ctx context.Context, caller model.Principal, id string) (*model.Offer, error) {
	offer, err := u.offers.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	// suppliers only see their own offers; municipality sees its tenant's
	if caller.Allowed(model.RoleMunicipality) {
		if !caller.IsAdmin() && offer.TenantID != caller.TenantID {
			return nil, domain.ErrNotFound
		}
		return offer, nil
	}
	if offer.SupplierID != caller.SubjectID {
		return nil, domain.ErrNotFound
	}
	return offer, nil
}

func (u *offerUC) ListMine(ctx context.Context, caller model.Principal) ([]*model.Offer, error) {
	if !caller.Allowed(model.RoleSupplier) {
		return nil, domain.ErrForbidden
	}
	return u.offers.ListBySupplier(ctx, nil, caller.SubjectID)
}

func (u *offerUC) ListPending(ctx context.Context, caller model.Principal, offset, limit int) ([]*model.Offer, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	return u.offers.ListByTenantAndStatus(ctx, nil, caller.TenantID, model.OfferStatusPending, offset, limit)
}

func (u *offerUC) Approve(ctx context.Context, caller model.Principal, id string) (*model.Offer, error) {
	return u.decide(ctx, caller, id, (*model.Offer).Approve)
}

func (u *offerUC) Reject(ctx context.Context, caller model.Principal, id string) (*model.Offer, error) {
	return u.decide(ctx, caller, id, (*model.Offer).Reject)
}

func (u *offerUC) decide(ctx context.Context, caller model.Principal, id string, transition func(*model.Offer) error) (*model.Offer, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	offer, err := u.offers.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && offer.TenantID != caller.TenantID {
		return nil, domain.ErrNotFound
	}
	if err := transition(offer); err != nil {
		return nil, err
	}
	if err := u.offers.Save(ctx, nil, offer); err != nil {
		return nil, err
	}
	u.log.Info().Str("offer_id", offer.ID).Str("status", string(offer.Status)).Msg("offer decided")
	return offer, nil
}

func (u *offerUC) ExpireDue(ctx context.Context) (int, error) {
	return u.offers.ExpireDue(ctx, nil, time.Now())
}
