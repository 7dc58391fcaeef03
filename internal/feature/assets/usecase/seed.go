package usecase

import (
	"context"
	"fmt"
	"time"

	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type sampleAsset struct {
	class         entity.AssetClass
	symbol        string
	quantity      string
	purchasePrice string
	currentPrice  string
	purchaseDate  string
}

// samplePortfolio は開発環境向けの初期データです。
var samplePortfolio = []sampleAsset{
	{entity.ClassStock, "PETR4", "100", "28.50", "30.50", "2024-01-15"},
	{entity.ClassStock, "VALE3", "50", "65.80", "68.90", "2024-02-20"},
	{entity.ClassStock, "ITUB4", "200", "30.15", "32.15", "2024-03-10"},
	{entity.ClassCrypto, "BTC", "0.5", "200000.00", "250000.00", "2023-12-10"},
	{entity.ClassCrypto, "ETH", "2.0", "14000.00", "16000.00", "2024-03-05"},
	{entity.ClassFund, "BOVA11", "20", "100.50", "105.30", "2024-04-12"},
	{entity.ClassFund, "IVVB11", "15", "240.80", "245.80", "2024-05-01"},
	{entity.ClassFixedIncome, "CDB", "10", "1000.00", "1025.00", "2024-05-18"},
}

// SampleAssets builds the sample portfolio with fresh ids.
func SampleAssets() ([]entity.Asset, error) {
	out := make([]entity.Asset, 0, len(samplePortfolio))
	for _, s := range samplePortfolio {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		date, err := time.Parse(time.DateOnly, s.purchaseDate)
		if err != nil {
			return nil, err
		}
		a := entity.Asset{
			ID:            id.String(),
			Class:         s.class,
			Symbol:        s.symbol,
			DisplayName:   s.symbol,
			Quantity:      decimal.RequireFromString(s.quantity),
			PurchasePrice: decimal.RequireFromString(s.purchasePrice),
			PurchaseDate:  date,
		}
		a.SetCurrentPrice(decimal.RequireFromString(s.currentPrice))
		out = append(out, a)
	}
	return out, nil
}

// SeedSampleData stores the sample portfolio when the store is empty.
// It returns the number of assets written.
func SeedSampleData(ctx context.Context, repo AssetRepository) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	if n > 0 {
		logger.Get().Infow("store already populated, skipping sample data", "count", n)
		return 0, nil
	}

	assets, err := SampleAssets()
	if err != nil {
		return 0, fmt.Errorf("build sample data: %w", err)
	}
	if err := repo.SaveAll(ctx, assets); err != nil {
		return 0, fmt.Errorf("save sample data: %w", err)
	}
	logger.Get().Infow("sample data seeded", "count", len(assets))
	return len(assets), nil
}
