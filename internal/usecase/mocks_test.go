// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

type noTx struct{}

// memTxManager runs the callback without a real database transaction.
type memTxManager struct{}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, noTx{})
}

// --- offers ---

type memOfferRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Offer
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{store: make(map[string]*model.Offer)}
}

func (m *memOfferRepo) Save(ctx context.Context, tx repository.Tx, o *model.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *memOfferRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOfferRepo) ListBySupplier(ctx context.Context, tx repository.Tx, supplierID string) ([]*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Offer
	for _, o := range m.store {
		if o.SupplierID == supplierID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOfferRepo) ListByTenantAndStatus(ctx context.Context, tx repository.Tx, tenantID string, status model.OfferStatus, offset, limit int) ([]*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Offer
	for _, o := range m.store {
		if o.TenantID == tenantID && o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOfferRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.store {
		if o.Status == model.OfferStatusActive && !o.ExpiresAt.IsZero() && o.ExpiresAt.Before(now) {
			if err := o.Expire(); err == nil {
				n++
			}
		}
	}
	return n, nil
}

func (m *memOfferRepo) CountByStatus(ctx context.Context, tx repository.Tx, tenantID string) (map[model.OfferStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.OfferStatus]int)
	for _, o := range m.store {
		if o.TenantID == tenantID {
			out[o.Status]++
		}
	}
	return out, nil
}

// --- discount codes ---

type memCodeRepo struct {
	mu     sync.RWMutex
	store  map[string]*model.DiscountCode
	offers *memOfferRepo
	tz     string

	saveErr error // simulate insert failures
	lockMu  sync.Mutex
}

func newMemCodeRepo(offers *memOfferRepo) *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.DiscountCode), offers: offers}
}

func (m *memCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.DiscountCode) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.store {
		if other.ID != c.ID && other.CitizenID == c.CitizenID && other.OfferID == c.OfferID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCodeRepo) FindActiveForRedemption(ctx context.Context, tx repository.Tx, code, supplierID string) (*model.RedeemableCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if !c.Active || !strings.EqualFold(c.Code, code) {
			continue
		}
		o, ok := m.offers.store[c.OfferID]
		if !ok || o.SupplierID != supplierID {
			continue
		}
		return &model.RedeemableCode{Code: *c, Offer: *o, TenantTimezone: m.tz}, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memCodeRepo) FindByCitizenAndOffer(ctx context.Context, tx repository.Tx, citizenID, offerID string) (*model.DiscountCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.CitizenID == citizenID && c.OfferID == offerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCodeRepo) Lock(ctx context.Context, tx repository.Tx, codeID string) error {
	// single mutex is enough to model per-code serialization in tests
	m.lockMu.Lock()
	m.lockMu.Unlock()
	return nil
}

func (m *memCodeRepo) DeactivateForExpiredOffers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	now := time.Now()
	for _, c := range m.store {
		if !c.Active {
			continue
		}
		if o, ok := m.offers.store[c.OfferID]; ok && o.Status == model.OfferStatusExpired {
			c.Deactivate(now)
			n++
		}
	}
	return n, nil
}

// --- transactions ---

type memTxnRepo struct {
	mu    sync.RWMutex
	rows  []*model.OfferTransaction
	codes *memCodeRepo

	insertErr error
}

func newMemTxnRepo(codes *memCodeRepo) *memTxnRepo {
	return &memTxnRepo{codes: codes}
}

func (m *memTxnRepo) Insert(ctx context.Context, tx repository.Tx, txn *model.OfferTransaction) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *txn
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memTxnRepo) FindLastByCode(ctx context.Context, tx repository.Tx, codeID string) (*model.OfferTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *model.OfferTransaction
	for _, r := range m.rows {
		if r.CodeID != codeID {
			continue
		}
		if last == nil || r.CreatedAt.After(last.CreatedAt) {
			last = r
		}
	}
	if last == nil {
		return nil, domain.ErrNotFound
	}
	cp := *last
	return &cp, nil
}

func (m *memTxnRepo) SumBySupplierAndPeriod(ctx context.Context, tx repository.Tx, supplierID string, from, to time.Time) (int, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	var total int64
	for _, r := range m.rows {
		c, ok := m.codes.store[r.CodeID]
		if !ok {
			continue
		}
		o, ok := m.codes.offers.store[c.OfferID]
		if !ok || o.SupplierID != supplierID {
			continue
		}
		if r.CreatedAt.Before(from) || !r.CreatedAt.Before(to) {
			continue
		}
		count++
		total += r.AmountCents
	}
	return count, total, nil
}

func (m *memTxnRepo) SumByTenantSince(ctx context.Context, tx repository.Tx, tenantID string, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, r := range m.rows {
		c, ok := m.codes.store[r.CodeID]
		if !ok {
			continue
		}
		o, ok := m.codes.offers.store[c.OfferID]
		if !ok || o.TenantID != tenantID {
			continue
		}
		if r.CreatedAt.Before(since) {
			continue
		}
		total += r.AmountCents
	}
	return total, nil
}

func (m *memTxnRepo) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// --- citizens ---

type memCitizenRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Citizen
}

func newMemCitizenRepo() *memCitizenRepo {
	return &memCitizenRepo{store: make(map[string]*model.Citizen)}
}

func (m *memCitizenRepo) Save(ctx context.Context, tx repository.Tx, c *model.Citizen) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCitizenRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Citizen, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCitizenRepo) CountByTenant(ctx context.Context, tx repository.Tx, tenantID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.store {
		if c.TenantID == tenantID && c.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (m *memCitizenRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	c.DeletedAt = &now
	return nil
}

// --- suppliers ---

type memSupplierRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Supplier
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{store: make(map[string]*model.Supplier)}
}

func (m *memSupplierRepo) Save(ctx context.Context, tx repository.Tx, s *model.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memSupplierRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok || s.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSupplierRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string, status model.SupplierStatus) ([]*model.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Supplier
	for _, s := range m.store {
		if s.TenantID != tenantID || s.DeletedAt != nil {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSupplierRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	s.DeletedAt = &now
	return nil
}

// --- invoices ---

type memInvoiceRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{store: make(map[string]*model.Invoice)}
}

func (m *memInvoiceRepo) Save(ctx context.Context, tx repository.Tx, inv *model.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.store[inv.ID] = &cp
	return nil
}

func (m *memInvoiceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoiceRepo) FindBySupplierAndPeriod(ctx context.Context, tx repository.Tx, supplierID string, periodStart time.Time) (*model.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inv := range m.store {
		if inv.SupplierID == supplierID && inv.PeriodStart.Equal(periodStart) {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memInvoiceRepo) ListByTenantAndPeriod(ctx context.Context, tx repository.Tx, tenantID string, periodStart time.Time) ([]*model.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Invoice
	for _, inv := range m.store {
		if inv.TenantID == tenantID && inv.PeriodStart.Equal(periodStart) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// --- benefits / grants ---

type memBenefitRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Benefit
}

func newMemBenefitRepo() *memBenefitRepo {
	return &memBenefitRepo{store: make(map[string]*model.Benefit)}
}

func (m *memBenefitRepo) Save(ctx context.Context, tx repository.Tx, b *model.Benefit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.store[b.ID] = &cp
	return nil
}

func (m *memBenefitRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Benefit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.store[id]
	if !ok || b.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBenefitRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string) ([]*model.Benefit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Benefit
	for _, b := range m.store {
		if b.TenantID == tenantID && b.DeletedAt == nil {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBenefitRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	b.DeletedAt = &now
	return nil
}

type memGrantRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Grant
}

func newMemGrantRepo() *memGrantRepo {
	return &memGrantRepo{store: make(map[string]*model.Grant)}
}

func (m *memGrantRepo) Save(ctx context.Context, tx repository.Tx, g *model.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.store[g.ID] = &cp
	return nil
}

func (m *memGrantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memGrantRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string, status model.GrantStatus) ([]*model.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Grant
	for _, g := range m.store {
		if g.TenantID != tenantID {
			continue
		}
		if status != "" && g.Status != status {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memGrantRepo) SumApprovedByBenefit(ctx context.Context, tx repository.Tx, benefitID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, g := range m.store {
		if g.BenefitID == benefitID && (g.Status == model.GrantStatusApproved || g.Status == model.GrantStatusPaid) {
			total += g.AmountCents
		}
	}
	return total, nil
}
