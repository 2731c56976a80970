package model

import (
	"time"

	"municipal-benefits/internal/domain"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

// Invoice aggregates one supplier's redemptions over one settlement period.
// Issued invoices feed the SEPA credit-transfer export.
type Invoice struct {
	ID               string
	TenantID         string
	SupplierID       string
	Number           string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	TransactionCount int
	TotalCents       int64
	Status           InvoiceStatus
	CreatedAt        time.Time
	IssuedAt         *time.Time
	PaidAt           *time.Time
}

// Issue finalizes a draft invoice.
func (i *Invoice) Issue(at time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return domain.ErrInvalidTransition
	}
	i.Status = InvoiceStatusIssued
	i.IssuedAt = &at
	return nil
}

// MarkPaid settles an issued invoice after the transfer went out.
func (i *Invoice) MarkPaid(at time.Time) error {
	if i.Status != InvoiceStatusIssued {
		return domain.ErrInvalidTransition
	}
	i.Status = InvoiceStatusPaid
	i.PaidAt = &at
	return nil
}

// NewInvoice validates and constructs a draft invoice.
func NewInvoice(id, tenantID, supplierID, number string, periodStart, periodEnd time.Time, txCount int, totalCents int64) (*Invoice, error) {
	if id == "" || tenantID == "" || supplierID == "" || number == "" {
		return nil, domain.ErrInvalidArgument
	}
	if periodEnd.Before(periodStart) || txCount < 0 || totalCents < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Invoice{
		ID:               id,
		TenantID:         tenantID,
		SupplierID:       supplierID,
		Number:           number,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		TransactionCount: txCount,
		TotalCents:       totalCents,
		Status:           InvoiceStatusDraft,
		CreatedAt:        time.Now(),
	}, nil
}
