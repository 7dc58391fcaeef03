package marketsim

import (
	"context"
	"fmt"
	"math/rand/v2"

	"portfolio_backend/internal/feature/assets/domain"
	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/feature/assets/usecase"

	"github.com/shopspring/decimal"
)

// RandomSource yields uniformly distributed values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// globalRand delegates to the math/rand/v2 top-level generator, which is safe for concurrent use.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

var (
	minPrice = decimal.New(1, -entity.PriceScale) // 0.01
	one      = decimal.NewFromInt(1)
	two      = decimal.NewFromInt(2)
)

// Oracle は基準価格にランダムな変動を加えた模擬価格を返す PriceOracle 実装です。
type Oracle struct {
	variation decimal.Decimal
	rnd       RandomSource
}

// Oracle が usecase.PriceOracle を実装していることをコンパイル時に検証します。
var _ usecase.PriceOracle = (*Oracle)(nil)

// NewOracle creates an Oracle. A nil rnd uses the process-wide generator.
func NewOracle(cfg Config, rnd RandomSource) *Oracle {
	if rnd == nil {
		rnd = globalRand{}
	}
	pct := cfg.VariationPercentage
	if !validPercentage(pct) {
		pct = DefaultVariationPercentage
	}
	return &Oracle{variation: decimal.NewFromFloat(pct), rnd: rnd}
}

// Quote returns a simulated unit price for the asset, rounded to two digits and never below 0.01.
// Malformed symbols are priced with the class default. It fails only when ctx is done.
func (o *Oracle) Quote(ctx context.Context, symbol string, class entity.AssetClass) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrPricingUnavailable, err)
	}

	base := BasePrice(entity.NormalizeSymbol(symbol), class)

	// u は [-1, 1) の一様乱数
	u := decimal.NewFromFloat(o.rnd.Float64()).Mul(two).Sub(one)
	band := o.variation.Mul(variationMultiplier(class))
	factor := one.Add(u.Mul(band).Div(decimal.NewFromInt(100)))

	price := base.Mul(factor).Round(entity.PriceScale)
	if price.LessThan(minPrice) {
		price = minPrice
	}
	return price, nil
}
