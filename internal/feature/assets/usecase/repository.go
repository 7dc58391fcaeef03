// Package usecase implements the business logic of the assets feature.
package usecase

import (
	"context"

	"portfolio_backend/internal/feature/assets/domain/entity"

	"github.com/shopspring/decimal"
)

// AssetRepository は資産データの永続化レイヤーを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type AssetRepository interface {
	FindAll(ctx context.Context) ([]entity.Asset, error)
	// FindByID returns domain.ErrAssetNotFound for an unknown id.
	FindByID(ctx context.Context, id string) (*entity.Asset, error)
	FindByClass(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error)
	// SearchBySymbol and SearchByName match case-insensitive substrings.
	SearchBySymbol(ctx context.Context, fragment string) ([]entity.Asset, error)
	SearchByName(ctx context.Context, fragment string) ([]entity.Asset, error)

	// Save inserts or fully replaces a record and returns the stored state.
	Save(ctx context.Context, a *entity.Asset) (*entity.Asset, error)
	// SaveAll stores every record in one transaction.
	SaveAll(ctx context.Context, assets []entity.Asset) error
	// Update loads the record under a per-record lock, applies fn and writes the result.
	// An error from fn aborts the write.
	Update(ctx context.Context, id string, fn func(a *entity.Asset) error) (*entity.Asset, error)
	// UpdateCurrentPrices rewrites only current_price for the given ids in one transaction.
	UpdateCurrentPrices(ctx context.Context, prices map[string]decimal.Decimal) error

	ExistsByID(ctx context.Context, id string) (bool, error)
	// DeleteByID returns domain.ErrAssetNotFound when nothing was deleted.
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// PriceOracle は資産の現在価格を見積もる外部サービスを抽象化します。
type PriceOracle interface {
	// Quote fails with domain.ErrPricingUnavailable when no price can be produced.
	Quote(ctx context.Context, symbol string, class entity.AssetClass) (decimal.Decimal, error)
}
