// File: internal/usecase/redemption_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
	"municipal-benefits/internal/infra/logging"
)

// ClientTimeLayout is the fixed pattern point-of-sale clients send for the
// redemption timestamp (MM/dd/yyyy, HH:mm:ss).
const ClientTimeLayout = "01/02/2006, 15:04:05"

// RedeemRequest is a supplier's attempt to redeem a citizen's code.
// AmountCents is optional; when absent the offer's configured amount applies.
type RedeemRequest struct {
	Code        string
	CurrentTime string
	AmountCents *int64
}

// RedeemResult is the confirmation payload returned to the supplier client.
type RedeemResult struct {
	Code                 string
	ValidatedAmountCents int64
	ValidatedAt          time.Time
}

// Compile-time check
var _ RedemptionUseCase = (*redemptionUC)(nil)

type RedemptionUseCase interface {
	// Redeem runs the full validation pipeline and, on success, records the
	// transaction. A rejected attempt has zero observable side effects.
	Redeem(ctx context.Context, caller model.Principal, req RedeemRequest) (*RedeemResult, error)
}

type redemptionUC struct {
	codes repository.DiscountCodeRepository
	txns  repository.OfferTransactionRepository
	tm    repository.TransactionManager
	now   func() time.Time
	log   *zerolog.Logger
}

func NewRedemptionUseCase(codes repository.DiscountCodeRepository, txns repository.OfferTransactionRepository, tm repository.TransactionManager, logger *zerolog.Logger) *redemptionUC {
	return &redemptionUC{codes: codes, txns: txns, tm: tm, now: time.Now, log: logger}
}

// Redeem executes the five pipeline stages strictly in order: code lookup,
// offer state check, restriction evaluation, transaction insert, response.
// Everything runs inside one database transaction whose first action after
// lookup is a per-code lock, so two concurrent redemptions of the same code
// cannot both pass the frequency check before either inserts.
func (u *redemptionUC) Redeem(ctx context.Context, caller model.Principal, req RedeemRequest) (*RedeemResult, error) {
	defer logging.TraceDuration(u.log, "RedemptionUC.Redeem")()

	if !caller.Allowed(model.RoleSupplier) {
		return nil, domain.ErrForbidden
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, domain.CodeNotFound("no code supplied")
	}

	now := u.now()
	var res *RedeemResult
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		rc, err := u.codes.FindActiveForRedemption(ctx, tx, code, caller.SubjectID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.CodeNotFound("no active code for this supplier")
		}
		if err != nil {
			return err
		}

		if err := u.codes.Lock(ctx, tx, rc.Code.ID); err != nil {
			return err
		}

		if !rc.Offer.Redeemable() {
			return domain.RedemptionInvalidf("offer %q is not active", rc.Offer.Title)
		}

		amount, err := u.evalRestrictions(ctx, tx, rc, req, now)
		if err != nil {
			return err
		}

		txn, err := model.NewOfferTransaction(rc.Code.ID, amount, now)
		if err != nil {
			return err
		}
		if err := u.txns.Insert(ctx, tx, txn); err != nil {
			return err
		}

		res = &RedeemResult{
			Code:                 rc.Code.Code,
			ValidatedAmountCents: amount,
			ValidatedAt:          txn.CreatedAt,
		}
		return nil
	})
	if err != nil {
		u.log.Debug().Err(err).Str("code", code).Str("supplier_id", caller.SubjectID).Msg("redemption rejected")
		return nil, err
	}
	return res, nil
}

// evalRestrictions applies the optional per-offer restriction. The three
// checks are independent and all must pass; the first failure aborts with an
// Invalid outcome and nothing recorded.
func (u *redemptionUC) evalRestrictions(ctx context.Context, tx repository.Tx, rc *model.RedeemableCode, req RedeemRequest, now time.Time) (int64, error) {
	amount := rc.Offer.AmountCents
	if req.AmountCents != nil {
		amount = *req.AmountCents
	}
	r := rc.Offer.Restriction
	if r == nil {
		return amount, nil
	}

	if r.TimeFrom != "" && r.TimeTo != "" {
		at, err := time.Parse(ClientTimeLayout, strings.TrimSpace(req.CurrentTime))
		if err != nil {
			return 0, domain.RedemptionInvalidf("malformed timestamp %q", req.CurrentTime)
		}
		if !r.AllowsTime(at) {
			return 0, domain.RedemptionInvalidf("offer is only valid between %s and %s", r.TimeFrom, r.TimeTo)
		}
	}

	if req.AmountCents != nil && !r.AllowsPrice(*req.AmountCents) {
		return 0, domain.RedemptionInvalidf("amount is outside the eligible price range")
	}

	switch r.Frequency {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly:
		last, err := u.txns.FindLastByCode(ctx, tx, rc.Code.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		if err == nil {
			loc := rc.Location()
			if model.SameFrequencyWindow(r.Frequency, last.CreatedAt.In(loc), now.In(loc)) {
				return 0, domain.RedemptionInvalidf("code already used in the current %s window", r.Frequency)
			}
		}
	}

	return amount, nil
}
