// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"
	"time"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// TenantStats is the admin dashboard payload for one tenant.
type TenantStats struct {
	Citizens       int
	OffersByStatus map[model.OfferStatus]int
	RevenueCents   struct {
		Week  int64
		Month int64
		Year  int64
	}
}

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	Totals(ctx context.Context, caller model.Principal) (*TenantStats, error)
}

type statsUC struct {
	citizens repository.CitizenRepository
	offers   repository.OfferRepository
	txns     repository.OfferTransactionRepository
}

func NewStatsUseCase(citizens repository.CitizenRepository, offers repository.OfferRepository, txns repository.OfferTransactionRepository) *statsUC {
	return &statsUC{citizens: citizens, offers: offers, txns: txns}
}

func (u *statsUC) Totals(ctx context.Context, caller model.Principal) (*TenantStats, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	tenantID := caller.TenantID

	citizens, err := u.citizens.CountByTenant(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	byStatus, err := u.offers.CountByStatus(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &TenantStats{Citizens: citizens, OffersByStatus: byStatus}
	if stats.RevenueCents.Week, err = u.txns.SumByTenantSince(ctx, nil, tenantID, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if stats.RevenueCents.Month, err = u.txns.SumByTenantSince(ctx, nil, tenantID, now.AddDate(0, -1, 0)); err != nil {
		return nil, err
	}
	if stats.RevenueCents.Year, err = u.txns.SumByTenantSince(ctx, nil, tenantID, now.AddDate(-1, 0, 0)); err != nil {
		return nil, err
	}
	return stats, nil
}
