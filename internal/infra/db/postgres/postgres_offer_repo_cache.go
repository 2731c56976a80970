package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
	"municipal-benefits/internal/infra/metrics"
	red "municipal-benefits/internal/infra/redis"
)

var _ repository.OfferRepository = (*offerRepoCacheDecorator)(nil)

// offerRepoCacheDecorator caches single-offer reads. Offers are read on every
// redemption (via the code join) and on every citizen browse, but change only
// on moderation decisions, so a short TTL plus write invalidation is enough.
type offerRepoCacheDecorator struct {
	inner repository.OfferRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewOfferRepoCacheDecorator(inner repository.OfferRepository, cache red.RedisClient) repository.OfferRepository {
	return &offerRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   5 * time.Minute,
	}
}

func offerKey(id string) string { return fmt.Sprintf("offer:%s", id) }

func (d *offerRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error) {
	// transactional reads bypass the cache to avoid stale state inside tx
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := offerKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("offer", "hit")
		var o model.Offer
		if json.Unmarshal([]byte(val), &o) == nil {
			return &o, nil
		}
	}

	metrics.IncCacheRequest("offer", "miss")
	o, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if o != nil {
		bytes, _ := json.Marshal(o)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return o, nil
}

// Save invalidates the cached offer before writing through.
func (d *offerRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, o *model.Offer) error {
	d.cache.Del(ctx, offerKey(o.ID))
	return d.inner.Save(ctx, tx, o)
}

func (d *offerRepoCacheDecorator) ListBySupplier(ctx context.Context, tx repository.Tx, supplierID string) ([]*model.Offer, error) {
	return d.inner.ListBySupplier(ctx, tx, supplierID)
}

func (d *offerRepoCacheDecorator) ListByTenantAndStatus(ctx context.Context, tx repository.Tx, tenantID string, status model.OfferStatus, offset, limit int) ([]*model.Offer, error) {
	return d.inner.ListByTenantAndStatus(ctx, tx, tenantID, status, offset, limit)
}

// ExpireDue flips an unknown set of offers, so cached entries cannot be
// invalidated one by one; the short TTL bounds the staleness window.
func (d *offerRepoCacheDecorator) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	return d.inner.ExpireDue(ctx, tx, now)
}

func (d *offerRepoCacheDecorator) CountByStatus(ctx context.Context, tx repository.Tx, tenantID string) (map[model.OfferStatus]int, error) {
	return d.inner.CountByStatus(ctx, tx, tenantID)
}
