//go:build !integration

// File: internal/infra/web/mock_test.go
package web

import (
	"context"
	"time"

	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/usecase"
)

// --- Mock use cases ---
//
// Each mock embeds the interface for forward compatibility and overrides only
// the methods a test configures via its Func fields.

type mockRedemptionUC struct {
	usecase.RedemptionUseCase
	RedeemFunc func(ctx context.Context, caller model.Principal, req usecase.RedeemRequest) (*usecase.RedeemResult, error)
}

func (m *mockRedemptionUC) Redeem(ctx context.Context, caller model.Principal, req usecase.RedeemRequest) (*usecase.RedeemResult, error) {
	return m.RedeemFunc(ctx, caller, req)
}

type mockOfferUC struct {
	usecase.OfferUseCase
	CreateFunc      func(ctx context.Context, caller model.Principal, in usecase.CreateOfferInput) (*model.Offer, error)
	GetFunc         func(ctx context.Context, caller model.Principal, id string) (*model.Offer, error)
	ListPendingFunc func(ctx context.Context, caller model.Principal, offset, limit int) ([]*model.Offer, error)
	ApproveFunc     func(ctx context.Context, caller model.Principal, id string) (*model.Offer, error)
}

func (m *mockOfferUC) Create(ctx context.Context, caller model.Principal, in usecase.CreateOfferInput) (*model.Offer, error) {
	return m.CreateFunc(ctx, caller, in)
}

func (m *mockOfferUC) Get(ctx context.Context, caller model.Principal, id string) (*model.Offer, error) {
	return m.GetFunc(ctx, caller, id)
}

func (m *mockOfferUC) ListPending(ctx context.Context, caller model.Principal, offset, limit int) ([]*model.Offer, error) {
	return m.ListPendingFunc(ctx, caller, offset, limit)
}

func (m *mockOfferUC) Approve(ctx context.Context, caller model.Principal, id string) (*model.Offer, error) {
	return m.ApproveFunc(ctx, caller, id)
}

type mockCodeUC struct {
	usecase.CodeUseCase
	EngageFunc func(ctx context.Context, caller model.Principal, offerID string) (*model.DiscountCode, error)
}

func (m *mockCodeUC) Engage(ctx context.Context, caller model.Principal, offerID string) (*model.DiscountCode, error) {
	return m.EngageFunc(ctx, caller, offerID)
}

type mockSupplierUC struct {
	usecase.SupplierUseCase
	GetFunc func(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error)
}

func (m *mockSupplierUC) Get(ctx context.Context, caller model.Principal, id string) (*model.Supplier, error) {
	return m.GetFunc(ctx, caller, id)
}

type mockTenantUC struct {
	usecase.TenantUseCase
	GetFunc func(ctx context.Context, caller model.Principal, id string) (*model.Tenant, error)
}

func (m *mockTenantUC) Get(ctx context.Context, caller model.Principal, id string) (*model.Tenant, error) {
	return m.GetFunc(ctx, caller, id)
}

type mockInvoiceUC struct {
	usecase.InvoiceUseCase
	ListByPeriodFunc func(ctx context.Context, caller model.Principal, period string) ([]*model.Invoice, error)
	IssueFunc        func(ctx context.Context, caller model.Principal, id string) (*model.Invoice, error)
}

func (m *mockInvoiceUC) ListByPeriod(ctx context.Context, caller model.Principal, period string) ([]*model.Invoice, error) {
	return m.ListByPeriodFunc(ctx, caller, period)
}

func (m *mockInvoiceUC) Issue(ctx context.Context, caller model.Principal, id string) (*model.Invoice, error) {
	return m.IssueFunc(ctx, caller, id)
}

type mockStatsUC struct {
	usecase.StatsUseCase
	TotalsFunc func(ctx context.Context, caller model.Principal) (*usecase.TenantStats, error)
}

func (m *mockStatsUC) Totals(ctx context.Context, caller model.Principal) (*usecase.TenantStats, error) {
	return m.TotalsFunc(ctx, caller)
}

// --- Mock redemption guards ---

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return m.AllowFunc(ctx, key, limit, window)
}

type mockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	unlocked    []string
}

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttl)
	}
	return "token", nil
}

func (m *mockLocker) Unlock(ctx context.Context, key, token string) error {
	m.unlocked = append(m.unlocked, key)
	return nil
}
