// File: internal/usecase/benefit_uc_test.go
package usecase

import (
	"context"
	"errors"
	"testing"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
)

func TestCreateGrant_BudgetEnforced(t *testing.T) {
	t.Parallel()

	benefits := newMemBenefitRepo()
	grants := newMemGrantRepo()
	uc := NewBenefitUseCase(benefits, grants, newTestLogger())
	ctx := context.Background()

	b, err := uc.CreateBenefit(ctx, muniCaller, "g1", "School supplies", 10_000)
	if err != nil {
		t.Fatalf("create benefit: %v", err)
	}

	g1, err := uc.CreateGrant(ctx, muniCaller, b.ID, "cit1", 6_000)
	if err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if g1.Status != model.GrantStatusPending {
		t.Fatalf("new grant must start pending, got %q", g1.Status)
	}
	if _, err := uc.ApproveGrant(ctx, muniCaller, g1.ID); err != nil {
		t.Fatalf("approve grant: %v", err)
	}

	// 6k approved + 5k requested would overrun the 10k budget
	if _, err := uc.CreateGrant(ctx, muniCaller, b.ID, "cit2", 5_000); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("budget overrun must be refused, got %v", err)
	}

	// exactly exhausting the budget is fine
	if _, err := uc.CreateGrant(ctx, muniCaller, b.ID, "cit2", 4_000); err != nil {
		t.Fatalf("grant within budget: %v", err)
	}
}

func TestGrantLifecycle(t *testing.T) {
	t.Parallel()

	benefits := newMemBenefitRepo()
	grants := newMemGrantRepo()
	uc := NewBenefitUseCase(benefits, grants, newTestLogger())
	ctx := context.Background()

	b, err := uc.CreateBenefit(ctx, muniCaller, "g1", "Transport", 5_000)
	if err != nil {
		t.Fatalf("create benefit: %v", err)
	}
	g, err := uc.CreateGrant(ctx, muniCaller, b.ID, "cit1", 2_500)
	if err != nil {
		t.Fatalf("create grant: %v", err)
	}

	// paying a pending grant skips a state
	if _, err := uc.PayGrant(ctx, muniCaller, g.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("paying a pending grant must fail, got %v", err)
	}
	if _, err := uc.ApproveGrant(ctx, muniCaller, g.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	paid, err := uc.PayGrant(ctx, muniCaller, g.ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != model.GrantStatusPaid || paid.PaidAt == nil {
		t.Fatalf("paid grant must carry a timestamp, got %+v", paid)
	}
}

func TestBenefit_SupplierForbidden(t *testing.T) {
	t.Parallel()

	uc := NewBenefitUseCase(newMemBenefitRepo(), newMemGrantRepo(), newTestLogger())
	if _, err := uc.CreateBenefit(context.Background(), supplierCaller, "g1", "x", 100); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("supplier must not create benefits, got %v", err)
	}
}

func TestStatsTotals(t *testing.T) {
	t.Parallel()

	f := newRedemptionFixture()
	citizens := newMemCitizenRepo()
	stats := NewStatsUseCase(citizens, f.offers, f.txns)
	ctx := context.Background()

	_ = citizens.Save(ctx, nil, &model.Citizen{ID: "cit1", TenantID: "t1", PassNumber: "P-1"})
	_ = citizens.Save(ctx, nil, &model.Citizen{ID: "cit2", TenantID: "t2", PassNumber: "P-2"})

	f.seedOffer("o1", 500, nil)
	f.seedCode("c1", "AB123", "cit1", "o1", true)
	if _, err := f.uc.Redeem(ctx, supplierCaller, RedeemRequest{Code: "AB123"}); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	got, err := stats.Totals(ctx, muniCaller)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if got.Citizens != 1 {
		t.Fatalf("expected one citizen in tenant t1, got %d", got.Citizens)
	}
	if got.OffersByStatus[model.OfferStatusActive] != 1 {
		t.Fatalf("expected one active offer, got %+v", got.OffersByStatus)
	}
	if got.RevenueCents.Week != 500 || got.RevenueCents.Year != 500 {
		t.Fatalf("expected 500 cents of revenue, got %+v", got.RevenueCents)
	}
}
