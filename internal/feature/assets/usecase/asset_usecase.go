package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"portfolio_backend/internal/feature/assets/domain"
	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultQuoteTimeout bounds a synchronous oracle call on the request path.
const DefaultQuoteTimeout = 2 * time.Second

// AssetInput は作成・更新リクエストで受け取る可変フィールドです。
type AssetInput struct {
	Class         entity.AssetClass
	Symbol        string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  time.Time
}

// assetUsecase は資産の CRUD と評価額集計のユースケースを定義します。
type assetUsecase struct {
	repo         AssetRepository
	oracle       PriceOracle
	quoteTimeout time.Duration
	now          func() time.Time
}

// NewAssetUsecase は assetUsecase の新しいインスタンスを生成します。
// quoteTimeout <= 0 の場合は DefaultQuoteTimeout を使用します。
func NewAssetUsecase(repo AssetRepository, oracle PriceOracle, quoteTimeout time.Duration) *assetUsecase {
	if quoteTimeout <= 0 {
		quoteTimeout = DefaultQuoteTimeout
	}
	return &assetUsecase{repo: repo, oracle: oracle, quoteTimeout: quoteTimeout, now: time.Now}
}

// Create validates in, prices the new asset once and stores it.
// When the oracle fails the purchase price becomes the current price.
func (uc *assetUsecase) Create(ctx context.Context, in AssetInput) (*entity.Asset, error) {
	a := &entity.Asset{}
	if err := uc.apply(a, in); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate asset id: %w", err)
	}
	a.ID = id.String()

	uc.priceOrFallback(ctx, a)

	saved, err := uc.repo.Save(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("save asset: %w", err)
	}
	logger.Get().Infow("asset created",
		"id", saved.ID, "symbol", saved.Symbol, "class", saved.Class,
		"current_price", saved.CurrentPrice.Decimal.StringFixed(entity.PriceScale))
	return saved, nil
}

// Get returns the asset with id or domain.ErrAssetNotFound.
func (uc *assetUsecase) Get(ctx context.Context, id string) (*entity.Asset, error) {
	return uc.repo.FindByID(ctx, id)
}

// List returns every asset.
func (uc *assetUsecase) List(ctx context.Context) ([]entity.Asset, error) {
	return uc.repo.FindAll(ctx)
}

// ListByClass returns the assets of one class.
func (uc *assetUsecase) ListByClass(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error) {
	if !class.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAssetClass, class)
	}
	return uc.repo.FindByClass(ctx, class)
}

// Search matches symbol first, then name. With neither it returns every asset.
func (uc *assetUsecase) Search(ctx context.Context, symbol, name string) ([]entity.Asset, error) {
	if s := strings.TrimSpace(symbol); s != "" {
		return uc.repo.SearchBySymbol(ctx, s)
	}
	if n := strings.TrimSpace(name); n != "" {
		return uc.repo.SearchByName(ctx, n)
	}
	return uc.repo.FindAll(ctx)
}

// Update replaces the mutable fields of the asset under its record lock.
// The asset is re-priced only when it has no current price yet.
func (uc *assetUsecase) Update(ctx context.Context, id string, in AssetInput) (*entity.Asset, error) {
	// ロック取得前に入力だけ検証しておく
	if err := uc.apply(&entity.Asset{}, in); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, id, func(a *entity.Asset) error {
		if err := uc.apply(a, in); err != nil {
			return err
		}
		if !a.HasCurrentPrice() {
			uc.priceOrFallback(ctx, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Get().Infow("asset updated", "id", updated.ID, "symbol", updated.Symbol)
	return updated, nil
}

// SetCurrentPrice overwrites the current price of the asset. Repeating the call is a no-op.
func (uc *assetUsecase) SetCurrentPrice(ctx context.Context, id string, price decimal.Decimal) (*entity.Asset, error) {
	p := price.Round(entity.PriceScale)
	if p.Sign() <= 0 {
		return nil, fmt.Errorf("%w: current price must be positive", domain.ErrValidation)
	}
	return uc.repo.Update(ctx, id, func(a *entity.Asset) error {
		a.SetCurrentPrice(p)
		return nil
	})
}

// Delete removes the asset. An unknown id leaves the store untouched.
func (uc *assetUsecase) Delete(ctx context.Context, id string) error {
	ok, err := uc.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAssetNotFound
	}
	if err := uc.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	logger.Get().Infow("asset deleted", "id", id)
	return nil
}

// Summary loads every asset and aggregates it.
func (uc *assetUsecase) Summary(ctx context.Context) (Summary, error) {
	assets, err := uc.repo.FindAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(assets), nil
}

// apply validates in and copies it onto a.
func (uc *assetUsecase) apply(a *entity.Asset, in AssetInput) error {
	if !in.Class.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAssetClass, in.Class)
	}

	symbol := entity.NormalizeSymbol(in.Symbol)
	if symbol == "" {
		return fmt.Errorf("%w: symbol is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(symbol) > entity.MaxSymbolLength {
		return fmt.Errorf("%w: symbol must be at most %d characters", domain.ErrValidation, entity.MaxSymbolLength)
	}

	qty := in.Quantity.Round(entity.QuantityScale)
	if qty.Sign() <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	price := in.PurchasePrice.Round(entity.PriceScale)
	if price.Sign() <= 0 {
		return fmt.Errorf("%w: purchase price must be positive", domain.ErrValidation)
	}

	if in.PurchaseDate.IsZero() {
		return fmt.Errorf("%w: purchase date is required", domain.ErrValidation)
	}
	date := truncateToDate(in.PurchaseDate)
	if date.After(truncateToDate(uc.now())) {
		return fmt.Errorf("%w: purchase date must not be in the future", domain.ErrValidation)
	}

	a.Class = in.Class
	a.Symbol = symbol
	a.DisplayName = symbol
	a.Quantity = qty
	a.PurchasePrice = price
	a.PurchaseDate = date
	return nil
}

// priceOrFallback sets the current price from the oracle, bounded by quoteTimeout.
func (uc *assetUsecase) priceOrFallback(ctx context.Context, a *entity.Asset) {
	qctx, cancel := context.WithTimeout(ctx, uc.quoteTimeout)
	defer cancel()

	p, err := uc.oracle.Quote(qctx, a.Symbol, a.Class)
	if err == nil && p.Sign() > 0 {
		a.SetCurrentPrice(p)
		return
	}
	if err == nil {
		err = fmt.Errorf("%w: non-positive quote %s", domain.ErrPricingUnavailable, p)
	}
	logger.Get().Warnw("quote failed, using purchase price",
		"symbol", a.Symbol, "class", a.Class, "error", err)
	a.SetCurrentPrice(a.PurchasePrice)
}

// truncateToDate drops the time of day, keeping the calendar date in UTC.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
