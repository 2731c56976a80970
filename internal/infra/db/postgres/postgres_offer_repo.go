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
var _ repository.OfferRepository = (*offerRepo)(nil)

type offerRepo struct {
	pool *pgxpool.Pool
}

func NewOfferRepo(pool *pgxpool.Pool) *offerRepo {
	return &offerRepo{pool: pool}
}

// offerColumns is shared by every offer read; the restriction is joined in so
// no second query is ever needed.
const offerColumns = `
o.id, o.tenant_id, o.supplier_id, o.title, o.description, o.type, o.amount_cents, o.percent,
o.status, o.active, o.start_at, o.expires_at, o.lat, o.lng, o.created_at, o.updated_at,
r.offer_id, r.time_from, r.time_to, r.min_price_cents, r.max_price_cents, r.frequency, r.min_age`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOffer(row rowScanner) (*model.Offer, error) {
	var o model.Offer
	var startAt, expiresAt *time.Time
	var rOfferID, rTimeFrom, rTimeTo, rFrequency *string
	var rMinPrice, rMaxPrice *int64
	var rMinAge *int

	err := row.Scan(
		&o.ID, &o.TenantID, &o.SupplierID, &o.Title, &o.Description, &o.Type, &o.AmountCents, &o.Percent,
		&o.Status, &o.Active, &startAt, &expiresAt, &o.Lat, &o.Lng, &o.CreatedAt, &o.UpdatedAt,
		&rOfferID, &rTimeFrom, &rTimeTo, &rMinPrice, &rMaxPrice, &rFrequency, &rMinAge,
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
	return &o, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *offerRepo) Save(ctx context.Context, tx repository.Tx, o *model.Offer) error {
	const q = `
INSERT INTO offers (
  id, tenant_id, supplier_id, title, description, type, amount_cents, percent,
  status, active, start_at, expires_at, lat, lng, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (id) DO UPDATE SET
  title=$4, description=$5, type=$6, amount_cents=$7, percent=$8,
  status=$9, active=$10, start_at=$11, expires_at=$12, lat=$13, lng=$14, updated_at=$16;`

	_, err := execSQL(ctx, r.pool, tx, q,
		o.ID, o.TenantID, o.SupplierID, o.Title, o.Description, o.Type, o.AmountCents, o.Percent,
		o.Status, o.Active, nullableTime(o.StartAt), nullableTime(o.ExpiresAt), o.Lat, o.Lng, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	if o.Restriction == nil {
		_, err = execSQL(ctx, r.pool, tx, `DELETE FROM offer_restrictions WHERE offer_id=$1;`, o.ID)
		return err
	}
	const qr = `
INSERT INTO offer_restrictions (offer_id, time_from, time_to, min_price_cents, max_price_cents, frequency, min_age)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (offer_id) DO UPDATE SET
  time_from=$2, time_to=$3, min_price_cents=$4, max_price_cents=$5, frequency=$6, min_age=$7;`
	rest := o.Restriction
	freq := rest.Frequency
	if freq == "" {
		freq = model.FrequencyNone
	}
	_, err = execSQL(ctx, r.pool, tx, qr,
		o.ID, nullableStr(rest.TimeFrom), nullableStr(rest.TimeTo), rest.MinPriceCents, rest.MaxPriceCents, freq, rest.MinAge,
	)
	return err
}

func nullableStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *offerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error) {
	q := `
SELECT ` + offerColumns + `
  FROM offers o
  LEFT JOIN offer_restrictions r ON r.offer_id = o.id
 WHERE o.id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOffer(row)
}

func (r *offerRepo) ListBySupplier(ctx context.Context, tx repository.Tx, supplierID string) ([]*model.Offer, error) {
	q := `
SELECT ` + offerColumns + `
  FROM offers o
  LEFT JOIN offer_restrictions r ON r.offer_id = o.id
 WHERE o.supplier_id = $1
 ORDER BY o.created_at DESC;`
	return r.queryMany(ctx, tx, q, supplierID)
}

func (r *offerRepo) ListByTenantAndStatus(ctx context.Context, tx repository.Tx, tenantID string, status model.OfferStatus, offset, limit int) ([]*model.Offer, error) {
	q := `
SELECT ` + offerColumns + `
  FROM offers o
  LEFT JOIN offer_restrictions r ON r.offer_id = o.id
 WHERE o.tenant_id = $1 AND o.status = $2
 ORDER BY o.created_at ASC
 OFFSET $3 LIMIT $4;`
	return r.queryMany(ctx, tx, q, tenantID, status, offset, limit)
}

func (r *offerRepo) queryMany(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Offer, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *offerRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `
UPDATE offers
   SET status = 'expired', active = FALSE, updated_at = NOW()
 WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *offerRepo) CountByStatus(ctx context.Context, tx repository.Tx, tenantID string) (map[model.OfferStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM offers WHERE tenant_id = $1 GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[model.OfferStatus]int)
	for rows.Next() {
		var status model.OfferStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
