//go:build !integration

package postgres

import (
	"context"
	"time"

	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
	red "municipal-benefits/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerOfferRepo mocks the database repository that the offer decorator wraps.
type mockInnerOfferRepo struct {
	SaveFunc                  func(ctx context.Context, tx repository.Tx, o *model.Offer) error
	FindByIDFunc              func(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error)
	ListBySupplierFunc        func(ctx context.Context, tx repository.Tx, supplierID string) ([]*model.Offer, error)
	ListByTenantAndStatusFunc func(ctx context.Context, tx repository.Tx, tenantID string, status model.OfferStatus, offset, limit int) ([]*model.Offer, error)
	ExpireDueFunc             func(ctx context.Context, tx repository.Tx, now time.Time) (int, error)
	CountByStatusFunc         func(ctx context.Context, tx repository.Tx, tenantID string) (map[model.OfferStatus]int, error)
}

func (m *mockInnerOfferRepo) Save(ctx context.Context, tx repository.Tx, o *model.Offer) error {
	return m.SaveFunc(ctx, tx, o)
}
func (m *mockInnerOfferRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerOfferRepo) ListBySupplier(ctx context.Context, tx repository.Tx, supplierID string) ([]*model.Offer, error) {
	return m.ListBySupplierFunc(ctx, tx, supplierID)
}
func (m *mockInnerOfferRepo) ListByTenantAndStatus(ctx context.Context, tx repository.Tx, tenantID string, status model.OfferStatus, offset, limit int) ([]*model.Offer, error) {
	return m.ListByTenantAndStatusFunc(ctx, tx, tenantID, status, offset, limit)
}
func (m *mockInnerOfferRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	return m.ExpireDueFunc(ctx, tx, now)
}
func (m *mockInnerOfferRepo) CountByStatus(ctx context.Context, tx repository.Tx, tenantID string) (map[model.OfferStatus]int, error) {
	return m.CountByStatusFunc(ctx, tx, tenantID)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
