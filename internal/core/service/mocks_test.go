package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/rl1809/menu-order/internal/adapter/phone"
	"github.com/rl1809/menu-order/internal/core/domain"
)

// Mock QuantityRepository
type mockQuantityRepo struct {
	values  map[string]string
	writes  int
	failSet bool
	mu      sync.Mutex
}

func newMockQuantityRepo() *mockQuantityRepo {
	return &mockQuantityRepo{values: make(map[string]string)}
}

func (m *mockQuantityRepo) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockQuantityRepo) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("disk full")
	}
	m.writes++
	m.values[key] = value
	return nil
}

// Mock OrderSubmitter
type mockSubmitter struct {
	mu     sync.Mutex
	calls  []domain.Order
	submit func(ctx context.Context, order domain.Order) (domain.Acknowledgement, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, order domain.Order) (domain.Acknowledgement, error) {
	m.mu.Lock()
	m.calls = append(m.calls, order)
	fn := m.submit
	m.mu.Unlock()

	if fn == nil {
		return domain.Acknowledgement{Success: true}, nil
	}
	return fn(ctx, order)
}

func (m *mockSubmitter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Mock CacheRepository
type mockCacheRepo struct {
	idempotencySet map[string]bool
	released       []string
	mu             sync.Mutex
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{idempotencySet: make(map[string]bool)}
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idempotencySet[key] {
		return false, nil
	}
	m.idempotencySet[key] = true
	return true, nil
}

func (m *mockCacheRepo) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.idempotencySet, key)
	m.released = append(m.released, key)
	return nil
}

// Mock DatabaseRepository
type mockDatabaseRepo struct {
	orders map[string]domain.Order
	fail   bool
	mu     sync.Mutex
}

func newMockDatabaseRepo() *mockDatabaseRepo {
	return &mockDatabaseRepo{orders: make(map[string]domain.Order)}
}

func (m *mockDatabaseRepo) CreateOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("connection reset")
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockDatabaseRepo) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func mustNull(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// testCatalog has item A at 350p with no size or description, and item B at 125p.
func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	catalog, err := domain.BuildCatalog(domain.MenuData{Groups: []domain.MenuGroup{
		{Name: "Mains", Items: []domain.MenuEntry{
			{Name: "Alpha", ID: []byte(`"A"`), Price: mustNull("3.50")},
			{Name: "Bravo", ID: []byte(`"B"`), Price: mustNull("1.25")},
		}},
	}})
	if err != nil {
		t.Fatalf("BuildCatalog failed: %v", err)
	}
	return catalog
}

type fixture struct {
	catalog   *domain.Catalog
	repo      *mockQuantityRepo
	store     *QuantityStore
	pricing   *PriceEngine
	submitter *mockSubmitter
	lifecycle *OrderLifecycle
}

func newFixture(t *testing.T, opts ...LifecycleOption) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)

	f := &fixture{
		catalog:   testCatalog(t),
		repo:      newMockQuantityRepo(),
		pricing:   NewPriceEngine(500),
		submitter: &mockSubmitter{},
	}
	f.store = NewQuantityStore(f.repo, f.catalog, log)
	f.lifecycle = NewOrderLifecycle(f.store, f.catalog, f.pricing, phone.NewUKFormatter(), f.submitter, log, opts...)
	return f
}
