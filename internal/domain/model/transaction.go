package model

import (
	"time"

	"github.com/oklog/ulid/v2"

	"municipal-benefits/internal/domain"
)

// OfferTransaction is an immutable redemption event. Rows are append-only:
// never updated, never deleted. IDs are ULIDs so the ledger sorts by time.
type OfferTransaction struct {
	ID          string
	CodeID      string
	AmountCents int64
	CreatedAt   time.Time
}

// NewOfferTransaction constructs a redemption event at the given instant.
func NewOfferTransaction(codeID string, amountCents int64, at time.Time) (*OfferTransaction, error) {
	if codeID == "" || amountCents < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &OfferTransaction{
		ID:          ulid.Make().String(),
		CodeID:      codeID,
		AmountCents: amountCents,
		CreatedAt:   at,
	}, nil
}
