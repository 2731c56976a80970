package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.DiscountCodeRepository = (*discountCodeRepo)(nil)

type discountCodeRepo struct {
	pool *pgxpool.Pool
}

func NewDiscountCodeRepo(pool *pgxpool.Pool) *discountCodeRepo {
	return &discountCodeRepo{pool: pool}
}

func (r *discountCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.DiscountCode) error {
	const q = `
INSERT INTO discount_codes (id, code, citizen_id, offer_id, active, created_at, deactivated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  active=$5, deactivated_at=$7;`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Code, c.CitizenID, c.OfferID, c.Active, c.CreatedAt, c.DeactivatedAt)
	if err != nil {
		// the (citizen_id, offer_id) unique index lost a race
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindActiveForRedemption resolves the supplier-scoped redemption view in one
// read: the code row, the owning offer with its restriction, and the tenant
// time zone. The code match is case-insensitive.
func (r *discountCodeRepo) FindActiveForRedemption(ctx context.Context, tx repository.Tx, code, supplierID string) (*model.RedeemableCode, error) {
	q := `
SELECT c.id, c.code, c.citizen_id, c.offer_id, c.active, c.created_at, c.deactivated_at,
       ` + offerColumns + `,
       t.timezone
  FROM discount_codes c
  JOIN offers o ON o.id = c.offer_id
  LEFT JOIN offer_restrictions r ON r.offer_id = o.id
  JOIN tenants t ON t.id = o.tenant_id
 WHERE UPPER(c.code) = UPPER($1) AND c.active = TRUE AND o.supplier_id = $2;`
	row, err := pickRow(ctx, r.pool, tx, q, code, supplierID)
	if err != nil {
		return nil, err
	}
	return scanRedeemable(row)
}

func scanRedeemable(row rowScanner) (*model.RedeemableCode, error) {
	var rc model.RedeemableCode
	var o = &rc.Offer
	var startAt, expiresAt *time.Time
	var rOfferID, rTimeFrom, rTimeTo, rFrequency *string
	var rMinPrice, rMaxPrice *int64
	var rMinAge *int
	var tz *string

	err := row.Scan(
		&rc.Code.ID, &rc.Code.Code, &rc.Code.CitizenID, &rc.Code.OfferID, &rc.Code.Active, &rc.Code.CreatedAt, &rc.Code.DeactivatedAt,
		&o.ID, &o.TenantID, &o.SupplierID, &o.Title, &o.Description, &o.Type, &o.AmountCents, &o.Percent,
		&o.Status, &o.Active, &startAt, &expiresAt, &o.Lat, &o.Lng, &o.CreatedAt, &o.UpdatedAt,
		&rOfferID, &rTimeFrom, &rTimeTo, &rMinPrice, &rMaxPrice, &rFrequency, &rMinAge,
		&tz,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if startAt != nil {
		o.StartAt = *startAt
	}
	if expiresAt != nil {
		o.ExpiresAt = *expiresAt
	}
	if rOfferID != nil {
		rest := &model.Restriction{OfferID: *rOfferID, MinPriceCents: rMinPrice, MaxPriceCents: rMaxPrice}
		if rTimeFrom != nil {
			rest.TimeFrom = *rTimeFrom
		}
		if rTimeTo != nil {
			rest.TimeTo = *rTimeTo
		}
		if rFrequency != nil {
			rest.Frequency = model.Frequency(*rFrequency)
		}
		if rMinAge != nil {
			rest.MinAge = *rMinAge
		}
		o.Restriction = rest
	}
	if tz != nil {
		rc.TenantTimezone = *tz
	}
	return &rc, nil
}

func (r *discountCodeRepo) FindByCitizenAndOffer(ctx context.Context, tx repository.Tx, citizenID, offerID string) (*model.DiscountCode, error) {
	const q = `
SELECT id, code, citizen_id, offer_id, active, created_at, deactivated_at
  FROM discount_codes
 WHERE citizen_id = $1 AND offer_id = $2;`
	row, err := pickRow(ctx, r.pool, tx, q, citizenID, offerID)
	if err != nil {
		return nil, err
	}
	var c model.DiscountCode
	err = row.Scan(&c.ID, &c.Code, &c.CitizenID, &c.OfferID, &c.Active, &c.CreatedAt, &c.DeactivatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}

// Lock takes a per-code advisory lock for the lifetime of the surrounding
// transaction, serializing concurrent redemptions of the same code.
func (r *discountCodeRepo) Lock(ctx context.Context, tx repository.Tx, codeID string) error {
	if tx == nil {
		return domain.ErrInvalidExecContext
	}
	_, err := execSQL(ctx, r.pool, tx, `SELECT pg_advisory_xact_lock($1);`, hashToInt64(codeID))
	return err
}

func (r *discountCodeRepo) DeactivateForExpiredOffers(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `
UPDATE discount_codes c
   SET active = FALSE, deactivated_at = NOW()
  FROM offers o
 WHERE o.id = c.offer_id AND c.active = TRUE AND o.status = 'expired';`
	tag, err := execSQL(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
