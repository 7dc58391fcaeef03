// Package dto defines the JSON shapes of the assets HTTP API.
package dto

import (
	"time"

	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/feature/assets/usecase"

	"github.com/shopspring/decimal"
)

// AssetRequest は資産の作成・更新リクエストです。
type AssetRequest struct {
	AssetClass    string           `json:"assetClass" binding:"required,asset_class"`
	Symbol        string           `json:"symbol" binding:"required,max=20"`
	Quantity      *decimal.Decimal `json:"quantity" binding:"required,gte=0.0001"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice" binding:"required,gte=0.01"`
	PurchaseDate  string           `json:"purchaseDate" binding:"required,datetime=2006-01-02"`
}

// ToInput converts a bound request into usecase input.
// Binding has already checked the formats, so parse failures surface as a zero date.
func (r AssetRequest) ToInput() usecase.AssetInput {
	class, _ := entity.ParseAssetClass(r.AssetClass)
	date, _ := time.Parse(time.DateOnly, r.PurchaseDate)

	in := usecase.AssetInput{
		Class:        class,
		Symbol:       r.Symbol,
		PurchaseDate: date,
	}
	if r.Quantity != nil {
		in.Quantity = *r.Quantity
	}
	if r.PurchasePrice != nil {
		in.PurchasePrice = *r.PurchasePrice
	}
	return in
}

// PriceRequest は現在価格の手動設定リクエストです。
type PriceRequest struct {
	CurrentPrice *decimal.Decimal `json:"currentPrice" binding:"required,gt=0"`
}
