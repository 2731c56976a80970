// File: internal/usecase/invoice_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// ParsePeriod turns a "YYYY-MM" settlement period into its UTC bounds.
func ParsePeriod(period string) (start, end time.Time, err error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse period %q: %w", period, err)
	}
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

// Compile-time check
var _ InvoiceUseCase = (*invoiceUC)(nil)

type InvoiceUseCase interface {
	// GenerateForPeriod builds one draft invoice per approved supplier of the
	// caller's tenant for the given "YYYY-MM" period. Generation is
	// idempotent: an existing invoice for (supplier, period) is kept as-is.
	GenerateForPeriod(ctx context.Context, caller model.Principal, period string) ([]*model.Invoice, error)
	// GenerateForSupplier is the single-supplier unit used by the invoice
	// worker's fan-out; it carries no principal because the caller is the
	// scheduler itself.
	GenerateForSupplier(ctx context.Context, supplier *model.Supplier, periodStart, periodEnd time.Time) (*model.Invoice, error)
	ListByPeriod(ctx context.Context, caller model.Principal, period string) ([]*model.Invoice, error)
	Issue(ctx context.Context, caller model.Principal, id string) (*model.Invoice, error)
}

type invoiceUC struct {
	invoices  repository.InvoiceRepository
	suppliers repository.SupplierRepository
	txns      repository.OfferTransactionRepository
	log       *zerolog.Logger
}

func NewInvoiceUseCase(invoices repository.InvoiceRepository, suppliers repository.SupplierRepository, txns repository.OfferTransactionRepository, logger *zerolog.Logger) *invoiceUC {
	return &invoiceUC{invoices: invoices, suppliers: suppliers, txns: txns, log: logger}
}

func (u *invoiceUC) GenerateForPeriod(ctx context.Context, caller model.Principal, period string) ([]*model.Invoice, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	start, end, err := ParsePeriod(period)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	suppliers, err := u.suppliers.ListByTenant(ctx, nil, caller.TenantID, model.SupplierStatusApproved)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Invoice, 0, len(suppliers))
	for _, s := range suppliers {
		inv, err := u.GenerateForSupplier(ctx, s, start, end)
		if err != nil {
			return nil, err
		}
		if inv != nil {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (u *invoiceUC) GenerateForSupplier(ctx context.Context, supplier *model.Supplier, periodStart, periodEnd time.Time) (*model.Invoice, error) {
	existing, err := u.invoices.FindBySupplierAndPeriod(ctx, nil, supplier.ID, periodStart)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	count, total, err := u.txns.SumBySupplierAndPeriod(ctx, nil, supplier.ID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		// no redemptions, no invoice
		return nil, nil
	}

	number := fmt.Sprintf("%s-%s", periodStart.Format("2006-01"), supplier.ID[:8])
	inv, err := model.NewInvoice(uuid.NewString(), supplier.TenantID, supplier.ID, number, periodStart, periodEnd, count, total)
	if err != nil {
		return nil, err
	}
	if err := u.invoices.Save(ctx, nil, inv); err != nil {
		return nil, err
	}
	u.log.Info().Str("invoice_id", inv.ID).Str("supplier_id", supplier.ID).Int64("total_cents", total).Msg("invoice generated")
	return inv, nil
}

func (u *invoiceUC) ListByPeriod(ctx context.Context, caller model.Principal, period string) ([]*model.Invoice, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	start, _, err := ParsePeriod(period)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	return u.invoices.ListByTenantAndPeriod(ctx, nil, caller.TenantID, start)
}

func (u *invoiceUC) Issue(ctx context.Context, caller model.Principal, id string) (*model.Invoice, error) {
	if !caller.Allowed(model.RoleMunicipality) {
		return nil, domain.ErrForbidden
	}
	inv, err := u.invoices.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && inv.TenantID != caller.TenantID {
		return nil, domain.ErrNotFound
	}
	if err := inv.Issue(time.Now()); err != nil {
		return nil, err
	}
	if err := u.invoices.Save(ctx, nil, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
