package usecase

import (
	"portfolio_backend/internal/feature/assets/domain/entity"

	"github.com/shopspring/decimal"
)

// Summary はポートフォリオ全体の集計結果です。
type Summary struct {
	TotalInvested     decimal.Decimal
	TotalCurrentValue decimal.Decimal
	TotalProfitLoss   decimal.Decimal
	// TotalByClass has one key per entity.AssetClasses entry, zero when the class is empty.
	TotalByClass map[entity.AssetClass]decimal.Decimal
	AssetCount   int
}

// Summarize aggregates invested value per class and in total.
// An asset whose class is outside the enumeration counts toward the totals but no bucket.
func Summarize(assets []entity.Asset) Summary {
	s := Summary{
		TotalInvested:     decimal.Zero,
		TotalCurrentValue: decimal.Zero,
		TotalByClass:      make(map[entity.AssetClass]decimal.Decimal, len(entity.AssetClasses)),
		AssetCount:        len(assets),
	}
	for _, c := range entity.AssetClasses {
		s.TotalByClass[c] = decimal.Zero
	}

	for i := range assets {
		a := &assets[i]
		invested := a.InvestedValue()
		s.TotalInvested = s.TotalInvested.Add(invested)
		s.TotalCurrentValue = s.TotalCurrentValue.Add(a.CurrentValue())
		if total, ok := s.TotalByClass[a.Class]; ok {
			s.TotalByClass[a.Class] = total.Add(invested)
		}
	}
	s.TotalProfitLoss = s.TotalCurrentValue.Sub(s.TotalInvested)
	return s
}
