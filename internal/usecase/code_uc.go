// File: internal/usecase/code_uc.go
package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// Compile-time check
var _ CodeUseCase = (*codeUC)(nil)

type CodeUseCase interface {
	// Engage gives the calling citizen a discount code for the offer,
	// returning the existing one when the citizen already engaged it.
	Engage(ctx context.Context, caller model.Principal, offerID string) (*model.DiscountCode, error)
}

type codeUC struct {
	codes    repository.DiscountCodeRepository
	offers   repository.OfferRepository
	citizens repository.CitizenRepository
	now      func() time.Time
	log      *zerolog.Logger
}

func NewCodeUseCase(codes repository.DiscountCodeRepository, offers repository.OfferRepository, citizens repository.CitizenRepository, logger *zerolog.Logger) *codeUC {
	return &codeUC{codes: codes, offers: offers, citizens: citizens, now: time.Now, log: logger}
}

// codeAlphabet drops ambiguous characters (0/O, 1/I) from the printed codes.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newCodeString(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}

func (u *codeUC) Engage(ctx context.Context, caller model.Principal, offerID string) (*model.DiscountCode, error) {
	if !caller.Allowed(model.RoleCitizen) {
		return nil, domain.ErrForbidden
	}
	citizenID := caller.SubjectID

	offer, err := u.offers.FindByID(ctx, nil, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.Redeemable() {
		return nil, domain.ErrInvalidArgument
	}

	citizen, err := u.citizens.FindByID(ctx, nil, citizenID)
	if err != nil {
		return nil, err
	}
	if citizen.TenantID != offer.TenantID {
		return nil, domain.ErrForbidden
	}
	if r := offer.Restriction; r != nil && r.MinAge > 0 && citizen.AgeAt(u.now()) < r.MinAge {
		return nil, domain.ErrForbidden
	}

	if existing, err := u.codes.FindByCitizenAndOffer(ctx, nil, citizenID, offerID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	code, err := model.NewDiscountCode(uuid.NewString(), newCodeString(5), citizenID, offerID)
	if err != nil {
		return nil, err
	}
	if err := u.codes.Save(ctx, nil, code); err != nil {
		// lost the race against a concurrent engage for the same pair
		if errors.Is(err, domain.ErrAlreadyExists) {
			return u.codes.FindByCitizenAndOffer(ctx, nil, citizenID, offerID)
		}
		return nil, err
	}
	u.log.Info().Str("offer_id", offerID).Str("citizen_id", citizenID).Msg("discount code issued")
	return code, nil
}
