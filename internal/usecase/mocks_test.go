//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/domain/model"
	"purchase-registry/internal/domain/ports/adapter"
	"purchase-registry/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// ---- Mock Marketplace ----

type MockMarketplace struct {
	VerifyPurchaseFunc func(ctx context.Context, code string) (*model.PurchaseRecord, error)
	ItemInfoFunc       func(ctx context.Context, itemID string) (*model.Item, error)
	UserInfoFunc       func(ctx context.Context, username string) (*model.MarketUser, error)

	verifyCalls atomic.Int32
}

var _ adapter.Marketplace = (*MockMarketplace)(nil)

func (m *MockMarketplace) VerifyPurchase(ctx context.Context, code string) (*model.PurchaseRecord, error) {
	m.verifyCalls.Add(1)
	if m.VerifyPurchaseFunc != nil {
		return m.VerifyPurchaseFunc(ctx, code)
	}
	return &model.PurchaseRecord{ItemID: "1", ItemName: "Item", Buyer: "buyer", SupportedUntil: time.Now().AddDate(1, 0, 0)}, nil
}

func (m *MockMarketplace) ItemInfo(ctx context.Context, itemID string) (*model.Item, error) {
	if m.ItemInfoFunc != nil {
		return m.ItemInfoFunc(ctx, itemID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockMarketplace) UserInfo(ctx context.Context, username string) (*model.MarketUser, error) {
	if m.UserInfoFunc != nil {
		return m.UserInfoFunc(ctx, username)
	}
	return nil, domain.ErrNotFound
}

func (m *MockMarketplace) VerifyCalls() int { return int(m.verifyCalls.Load()) }

// ---- Mock Verifier ----

type MockVerifier struct {
	VerifyFunc func(ctx context.Context, code string, wantDetails bool) (*model.PurchaseRecord, error)

	mu    sync.Mutex
	calls []bool // wantDetails of every call
}

func (m *MockVerifier) Verify(ctx context.Context, code string, wantDetails bool) (*model.PurchaseRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, wantDetails)
	m.mu.Unlock()
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, code, wantDetails)
	}
	return nil, nil
}

func (m *MockVerifier) Calls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.calls...)
}

// ---- Mock RegistryRepository ----

// MockRegistryRepo wraps a real store and lets tests inject failures.
type MockRegistryRepo struct {
	repository.RegistryRepository

	FindByCodeErr error
	InsertErr     error
}

func (m *MockRegistryRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.RegistryEntry, error) {
	if m.FindByCodeErr != nil {
		return nil, m.FindByCodeErr
	}
	return m.RegistryRepository.FindByCode(ctx, tx, code)
}

func (m *MockRegistryRepo) Insert(ctx context.Context, tx repository.Tx, e *model.RegistryEntry) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	return m.RegistryRepository.Insert(ctx, tx, e)
}

// ---- Lockers ----

// noLocker never blocks, leaving the store constraint as the only guard.
type noLocker struct{}

func (noLocker) Lock(ctx context.Context, key string) (func(), error) { return func() {}, nil }

type failingLocker struct{ err error }

func (l failingLocker) Lock(ctx context.Context, key string) (func(), error) { return nil, l.err }
