// Package entity defines the domain models for the assets feature.
package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MaxSymbolLength is the maximum length of a normalized symbol.
	MaxSymbolLength = 20
	// QuantityScale is the number of fractional digits kept for quantities.
	QuantityScale = 4
	// PriceScale is the number of fractional digits kept for prices.
	PriceScale = 2
	// PercentageScale is the number of fractional digits of ProfitLossPercentage.
	PercentageScale = 4
)

var hundred = decimal.NewFromInt(100)

// Asset is a single position held in the portfolio.
type Asset struct {
	ID            string              // UUIDv7, assigned at creation
	Class         AssetClass          // Asset class (STOCK, CRYPTO, ...)
	Symbol        string              // Normalized ticker (trimmed, uppercase)
	DisplayName   string              // Mirrors Symbol
	Quantity      decimal.Decimal     // Units held, 4 fractional digits
	PurchasePrice decimal.Decimal     // Unit purchase price, 2 fractional digits
	CurrentPrice  decimal.NullDecimal // Latest quoted unit price; invalid until first pricing
	PurchaseDate  time.Time           // Calendar date (UTC midnight)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeSymbol trims and uppercases a raw symbol.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// HasCurrentPrice reports whether the asset has been priced at least once.
func (a *Asset) HasCurrentPrice() bool {
	return a.CurrentPrice.Valid
}

// SetCurrentPrice stores p rounded to PriceScale.
func (a *Asset) SetCurrentPrice(p decimal.Decimal) {
	a.CurrentPrice = decimal.NewNullDecimal(p.Round(PriceScale))
}

// InvestedValue returns PurchasePrice × Quantity.
func (a *Asset) InvestedValue() decimal.Decimal {
	return a.PurchasePrice.Mul(a.Quantity)
}

// CurrentValue returns CurrentPrice × Quantity, or zero when the asset was never priced.
func (a *Asset) CurrentValue() decimal.Decimal {
	if !a.CurrentPrice.Valid {
		return decimal.Zero
	}
	return a.CurrentPrice.Decimal.Mul(a.Quantity)
}

// ProfitLoss returns CurrentValue − InvestedValue.
func (a *Asset) ProfitLoss() decimal.Decimal {
	return a.CurrentValue().Sub(a.InvestedValue())
}

// ProfitLossPercentage returns ProfitLoss relative to InvestedValue in percent,
// rounded half-up to PercentageScale digits. It is zero when nothing was invested.
func (a *Asset) ProfitLossPercentage() decimal.Decimal {
	invested := a.InvestedValue()
	if invested.Sign() <= 0 {
		return decimal.Zero
	}
	// 先に100倍してから割ることで、丸めを最後の1回だけにする
	return a.ProfitLoss().Mul(hundred).Div(invested).Round(PercentageScale)
}
