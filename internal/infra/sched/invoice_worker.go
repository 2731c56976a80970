// File: internal/infra/sched/invoice_worker.go
package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
	"municipal-benefits/internal/infra/metrics"
	"municipal-benefits/internal/infra/worker"
	"municipal-benefits/internal/usecase"
)

// InvoiceWorker generates the previous month's draft invoices for every
// approved supplier. Per-supplier aggregation fans out over the worker pool;
// generation is idempotent per (supplier, period), so repeated sweeps are
// harmless.
type InvoiceWorker struct {
	interval  time.Duration
	tenants   repository.TenantRepository
	suppliers repository.SupplierRepository
	invoiceUC usecase.InvoiceUseCase
	pool      *worker.Pool
	log       *zerolog.Logger
}

func NewInvoiceWorker(
	interval time.Duration,
	tenants repository.TenantRepository,
	suppliers repository.SupplierRepository,
	invoiceUC usecase.InvoiceUseCase,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *InvoiceWorker {
	compLog := logger.With().Str("component", "InvoiceWorker").Logger()
	return &InvoiceWorker{
		interval:  interval,
		tenants:   tenants,
		suppliers: suppliers,
		invoiceUC: invoiceUC,
		pool:      pool,
		log:       &compLog,
	}
}

func (w *InvoiceWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting invoice worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping invoice worker")
			return ctx.Err()
		case <-ticker.C:
			w.runSweep(ctx)
		}
	}
}

// previousMonth returns the bounds of the last full calendar month in UTC.
func previousMonth(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, -1, 0), end
}

func (w *InvoiceWorker) runSweep(ctx context.Context) {
	sweepStart := time.Now()
	periodStart, periodEnd := previousMonth(sweepStart)

	tenants, err := w.tenants.ListAll(ctx, repository.NoTX)
	if err != nil {
		w.log.Error().Err(err).Msg("invoice sweep: list tenants failed")
		return
	}
	for _, tenant := range tenants {
		suppliers, err := w.suppliers.ListByTenant(ctx, repository.NoTX, tenant.ID, model.SupplierStatusApproved)
		if err != nil {
			w.log.Error().Err(err).Str("tenant_id", tenant.ID).Msg("invoice sweep: list suppliers failed")
			continue
		}
		for _, sup := range suppliers {
			sup := sup
			err := w.pool.Submit(func(ctx context.Context) error {
				inv, err := w.invoiceUC.GenerateForSupplier(ctx, sup, periodStart, periodEnd)
				if err != nil {
					return fmt.Errorf("generate invoice for supplier %s: %w", sup.ID, err)
				}
				if inv != nil && !inv.CreatedAt.Before(sweepStart) {
					metrics.IncInvoice(string(inv.Status))
					metrics.AddInvoicedCents(inv.TotalCents)
					w.log.Info().Str("invoice_id", inv.ID).Str("number", inv.Number).Msg("invoice drafted")
				}
				return nil
			})
			if err != nil {
				w.log.Warn().Err(err).Str("supplier_id", sup.ID).Msg("invoice sweep: submit rejected")
			}
		}
	}
}
