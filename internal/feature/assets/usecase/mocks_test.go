package usecase

import (
	"context"
	"errors"
	"sync"

	"portfolio_backend/internal/feature/assets/domain/entity"

	"github.com/shopspring/decimal"
)

var errNotImplemented = errors.New("mock function is not implemented")

// mockAssetRepository is a mock implementation of the AssetRepository interface.
type mockAssetRepository struct {
	FindAllFunc             func(ctx context.Context) ([]entity.Asset, error)
	FindByIDFunc            func(ctx context.Context, id string) (*entity.Asset, error)
	FindByClassFunc         func(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error)
	SearchBySymbolFunc      func(ctx context.Context, fragment string) ([]entity.Asset, error)
	SearchByNameFunc        func(ctx context.Context, fragment string) ([]entity.Asset, error)
	SaveFunc                func(ctx context.Context, a *entity.Asset) (*entity.Asset, error)
	SaveAllFunc             func(ctx context.Context, assets []entity.Asset) error
	UpdateFunc              func(ctx context.Context, id string, fn func(a *entity.Asset) error) (*entity.Asset, error)
	UpdateCurrentPricesFunc func(ctx context.Context, prices map[string]decimal.Decimal) error
	ExistsByIDFunc          func(ctx context.Context, id string) (bool, error)
	DeleteByIDFunc          func(ctx context.Context, id string) error
	CountFunc               func(ctx context.Context) (int64, error)

	FindAllCalls             int
	SaveCalls                int
	SaveAllCalls             int
	UpdateCalls              int
	UpdateCurrentPricesCalls int
	DeleteByIDCalls          int
}

func (m *mockAssetRepository) FindAll(ctx context.Context) ([]entity.Asset, error) {
	m.FindAllCalls++
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockAssetRepository) FindByID(ctx context.Context, id string) (*entity.Asset, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockAssetRepository) FindByClass(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error) {
	if m.FindByClassFunc != nil {
		return m.FindByClassFunc(ctx, class)
	}
	return nil, errNotImplemented
}

func (m *mockAssetRepository) SearchBySymbol(ctx context.Context, fragment string) ([]entity.Asset, error) {
	if m.SearchBySymbolFunc != nil {
		return m.SearchBySymbolFunc(ctx, fragment)
	}
	return nil, errNotImplemented
}

func (m *mockAssetRepository) SearchByName(ctx context.Context, fragment string) ([]entity.Asset, error) {
	if m.SearchByNameFunc != nil {
		return m.SearchByNameFunc(ctx, fragment)
	}
	return nil, errNotImplemented
}

func (m *mockAssetRepository) Save(ctx context.Context, a *entity.Asset) (*entity.Asset, error) {
	m.SaveCalls++
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, a)
	}
	return nil, errNotImplemented
}

func (m *mockAssetRepository) SaveAll(ctx context.Context, assets []entity.Asset) error {
	m.SaveAllCalls++
	if m.SaveAllFunc != nil {
		return m.SaveAllFunc(ctx, assets)
	}
	return errNotImplemented
}

func (m *mockAssetRepository) Update(ctx context.Context, id string, fn func(a *entity.Asset) error) (*entity.Asset, error) {
	m.UpdateCalls++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, fn)
	}
	return nil, errNotImplemented
}

func (m *mockAssetRepository) UpdateCurrentPrices(ctx context.Context, prices map[string]decimal.Decimal) error {
	m.UpdateCurrentPricesCalls++
	if m.UpdateCurrentPricesFunc != nil {
		return m.UpdateCurrentPricesFunc(ctx, prices)
	}
	return errNotImplemented
}

func (m *mockAssetRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if m.ExistsByIDFunc != nil {
		return m.ExistsByIDFunc(ctx, id)
	}
	return false, errNotImplemented
}

func (m *mockAssetRepository) DeleteByID(ctx context.Context, id string) error {
	m.DeleteByIDCalls++
	if m.DeleteByIDFunc != nil {
		return m.DeleteByIDFunc(ctx, id)
	}
	return errNotImplemented
}

func (m *mockAssetRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, errNotImplemented
}

// memoryUpdate emulates the locked read-modify-write of a real store over a single record.
func memoryUpdate(stored *entity.Asset) func(ctx context.Context, id string, fn func(a *entity.Asset) error) (*entity.Asset, error) {
	var mu sync.Mutex
	return func(ctx context.Context, id string, fn func(a *entity.Asset) error) (*entity.Asset, error) {
		mu.Lock()
		defer mu.Unlock()
		cp := *stored
		if err := fn(&cp); err != nil {
			return nil, err
		}
		*stored = cp
		out := cp
		return &out, nil
	}
}

// mockPriceOracle is a mock implementation of the PriceOracle interface.
type mockPriceOracle struct {
	QuoteFunc  func(ctx context.Context, symbol string, class entity.AssetClass) (decimal.Decimal, error)
	QuoteCalls int
}

func (m *mockPriceOracle) Quote(ctx context.Context, symbol string, class entity.AssetClass) (decimal.Decimal, error) {
	m.QuoteCalls++
	if m.QuoteFunc != nil {
		return m.QuoteFunc(ctx, symbol, class)
	}
	return decimal.Zero, errNotImplemented
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
