package dto

import (
	"time"

	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/feature/assets/usecase"
)

// AssetResponse renders decimals as fixed-scale strings to keep precision on the wire.
type AssetResponse struct {
	ID                   string    `json:"id"`
	AssetClass           string    `json:"assetClass"`
	Symbol               string    `json:"symbol"`
	DisplayName          string    `json:"displayName"`
	Quantity             string    `json:"quantity"`
	PurchasePrice        string    `json:"purchasePrice"`
	CurrentPrice         *string   `json:"currentPrice"`
	PurchaseDate         string    `json:"purchaseDate"`
	InvestedValue        string    `json:"investedValue"`
	CurrentValue         string    `json:"currentValue"`
	ProfitLoss           string    `json:"profitLoss"`
	ProfitLossPercentage string    `json:"profitLossPercentage"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// NewAssetResponse はエンティティからレスポンスを生成します。
func NewAssetResponse(a *entity.Asset) AssetResponse {
	var current *string
	if a.HasCurrentPrice() {
		s := a.CurrentPrice.Decimal.StringFixed(entity.PriceScale)
		current = &s
	}
	return AssetResponse{
		ID:                   a.ID,
		AssetClass:           string(a.Class),
		Symbol:               a.Symbol,
		DisplayName:          a.DisplayName,
		Quantity:             a.Quantity.StringFixed(entity.QuantityScale),
		PurchasePrice:        a.PurchasePrice.StringFixed(entity.PriceScale),
		CurrentPrice:         current,
		PurchaseDate:         a.PurchaseDate.UTC().Format(time.DateOnly),
		InvestedValue:        a.InvestedValue().StringFixed(entity.PriceScale),
		CurrentValue:         a.CurrentValue().StringFixed(entity.PriceScale),
		ProfitLoss:           a.ProfitLoss().StringFixed(entity.PriceScale),
		ProfitLossPercentage: a.ProfitLossPercentage().StringFixed(entity.PercentageScale),
		CreatedAt:            a.CreatedAt.UTC(),
		UpdatedAt:            a.UpdatedAt.UTC(),
	}
}

// NewAssetResponses converts a slice, never returning nil so it renders as [].
func NewAssetResponses(as []entity.Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(as))
	for i := range as {
		out = append(out, NewAssetResponse(&as[i]))
	}
	return out
}

// SummaryResponse はポートフォリオ集計のレスポンスです。
type SummaryResponse struct {
	TotalInvested     string            `json:"totalInvested"`
	TotalCurrentValue string            `json:"totalCurrentValue"`
	TotalProfitLoss   string            `json:"totalProfitLoss"`
	TotalByClass      map[string]string `json:"totalByClass"`
	AssetCount        int               `json:"assetCount"`
}

func NewSummaryResponse(s usecase.Summary) SummaryResponse {
	byClass := make(map[string]string, len(s.TotalByClass))
	for c, v := range s.TotalByClass {
		byClass[string(c)] = v.StringFixed(entity.PriceScale)
	}
	return SummaryResponse{
		TotalInvested:     s.TotalInvested.StringFixed(entity.PriceScale),
		TotalCurrentValue: s.TotalCurrentValue.StringFixed(entity.PriceScale),
		TotalProfitLoss:   s.TotalProfitLoss.StringFixed(entity.PriceScale),
		TotalByClass:      byClass,
		AssetCount:        s.AssetCount,
	}
}

// RefreshResponse は手動リフレッシュの結果です。
type RefreshResponse struct {
	Scanned    int   `json:"scanned"`
	Updated    int   `json:"updated"`
	Skipped    int   `json:"skipped"`
	DurationMs int64 `json:"durationMs"`
}

func NewRefreshResponse(r usecase.RefreshResult) RefreshResponse {
	return RefreshResponse{
		Scanned:    r.Scanned,
		Updated:    r.Updated,
		Skipped:    r.Skipped,
		DurationMs: r.Duration.Milliseconds(),
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
