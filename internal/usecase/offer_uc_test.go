// File: internal/usecase/offer_uc_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
)

var muniCaller = model.Principal{SubjectID: "muni1", TenantID: "t1", Roles: []model.Role{model.RoleMunicipality}}

func validOfferInput() CreateOfferInput {
	return CreateOfferInput{
		Title:       "Two-for-one pool entry",
		Type:        model.OfferTypeBOGO,
		AmountCents: 450,
		StartAt:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestOfferCreate_StartsPending(t *testing.T) {
	t.Parallel()

	offers := newMemOfferRepo()
	uc := NewOfferUseCase(offers, newTestLogger())

	offer, err := uc.Create(context.Background(), supplierCaller, validOfferInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if offer.Status != model.OfferStatusPending {
		t.Fatalf("new offer must await approval, got status %q", offer.Status)
	}
	if offer.SupplierID != supplierCaller.SubjectID || offer.TenantID != supplierCaller.TenantID {
		t.Fatalf("offer must carry the caller's supplier and tenant")
	}
}

func TestOfferCreate_InvalidRestrictionRejected(t *testing.T) {
	t.Parallel()

	offers := newMemOfferRepo()
	uc := NewOfferUseCase(offers, newTestLogger())

	in := validOfferInput()
	in.Restriction = &model.Restriction{TimeFrom: "15:00", TimeTo: "12:00"}
	if _, err := uc.Create(context.Background(), supplierCaller, in); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("inverted time window must be rejected, got %v", err)
	}
}

func TestOfferCreate_CitizenForbidden(t *testing.T) {
	t.Parallel()

	uc := NewOfferUseCase(newMemOfferRepo(), newTestLogger())
	if _, err := uc.Create(context.Background(), citizenCaller, validOfferInput()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("citizen must not create offers, got %v", err)
	}
}

func TestOfferApprove(t *testing.T) {
	t.Parallel()

	offers := newMemOfferRepo()
	uc := NewOfferUseCase(offers, newTestLogger())
	created, err := uc.Create(context.Background(), supplierCaller, validOfferInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := uc.Approve(context.Background(), muniCaller, created.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.OfferStatusActive {
		t.Fatalf("approved offer must be active, got %q", approved.Status)
	}

	// a decided offer cannot be decided again
	if _, err := uc.Reject(context.Background(), muniCaller, created.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("rejecting an active offer must fail, got %v", err)
	}
}

func TestOfferApprove_ForeignTenantHidden(t *testing.T) {
	t.Parallel()

	offers := newMemOfferRepo()
	uc := NewOfferUseCase(offers, newTestLogger())
	created, err := uc.Create(context.Background(), supplierCaller, validOfferInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	other := model.Principal{SubjectID: "muni2", TenantID: "t2", Roles: []model.Role{model.RoleMunicipality}}
	if _, err := uc.Approve(context.Background(), other, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign tenant must not see the offer, got %v", err)
	}
}

func TestOfferGet_Visibility(t *testing.T) {
	t.Parallel()

	offers := newMemOfferRepo()
	uc := NewOfferUseCase(offers, newTestLogger())
	created, err := uc.Create(context.Background(), supplierCaller, validOfferInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := uc.Get(context.Background(), supplierCaller, created.ID); err != nil {
		t.Fatalf("owner must see the offer: %v", err)
	}
	if _, err := uc.Get(context.Background(), muniCaller, created.ID); err != nil {
		t.Fatalf("tenant municipality must see the offer: %v", err)
	}

	otherSup := model.Principal{SubjectID: "sup2", TenantID: "t1", Roles: []model.Role{model.RoleSupplier}}
	if _, err := uc.Get(context.Background(), otherSup, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign supplier must not see the offer, got %v", err)
	}
}

func TestOfferListPending(t *testing.T) {
	t.Parallel()

	offers := newMemOfferRepo()
	uc := NewOfferUseCase(offers, newTestLogger())
	created, err := uc.Create(context.Background(), supplierCaller, validOfferInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pending, err := uc.ListPending(context.Background(), muniCaller, 0, 50)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Fatalf("expected the one pending offer, got %d", len(pending))
	}

	if _, err := uc.Approve(context.Background(), muniCaller, created.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	pending, err = uc.ListPending(context.Background(), muniCaller, 0, 50)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("approved offer must leave the pending list, got %d", len(pending))
	}
}

func TestOfferExpireDue(t *testing.T) {
	t.Parallel()

	offers := newMemOfferRepo()
	uc := NewOfferUseCase(offers, newTestLogger())

	in := validOfferInput()
	in.ExpiresAt = time.Now().Add(-time.Hour)
	in.StartAt = in.ExpiresAt.Add(-24 * time.Hour)
	created, err := uc.Create(context.Background(), supplierCaller, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uc.Approve(context.Background(), muniCaller, created.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	n, err := uc.ExpireDue(context.Background())
	if err != nil {
		t.Fatalf("expire due: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one expired offer, got %d", n)
	}
	got, err := offers.FindByID(context.Background(), nil, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.OfferStatusExpired {
		t.Fatalf("offer must be expired, got %q", got.Status)
	}
}
