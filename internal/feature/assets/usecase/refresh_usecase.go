package usecase

import (
	"context"
	"fmt"
	"time"

	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/platform/logger"

	"github.com/shopspring/decimal"
)

// RefreshResult は1回の一括価格更新の結果です。
type RefreshResult struct {
	Scanned  int           // 読み込んだ資産数
	Updated  int           // 新しい価格を書き込んだ資産数
	Skipped  int           // 見積もりに失敗してスキップした資産数
	Duration time.Duration // 処理時間
}

// RefreshUsecase は全資産の現在価格を模擬市場から再取得し、一括で永続化します。
type RefreshUsecase struct {
	repo   AssetRepository
	oracle PriceOracle
}

// NewRefreshUsecase は新しい RefreshUsecase を作成します。
func NewRefreshUsecase(repo AssetRepository, oracle PriceOracle) *RefreshUsecase {
	return &RefreshUsecase{repo: repo, oracle: oracle}
}

// RefreshAll quotes every stored asset and writes the new prices in one bulk operation.
// Assets the oracle cannot price are logged and skipped. A failed write fails the run;
// nothing is retried here.
func (ru *RefreshUsecase) RefreshAll(ctx context.Context) (RefreshResult, error) {
	start := time.Now()
	log := logger.Get()

	assets, err := ru.repo.FindAll(ctx)
	if err != nil {
		return RefreshResult{Duration: time.Since(start)}, fmt.Errorf("load assets: %w", err)
	}

	res := RefreshResult{Scanned: len(assets)}
	if len(assets) == 0 {
		res.Duration = time.Since(start)
		log.Debugw("price refresh skipped, no assets")
		return res, nil
	}

	prices := make(map[string]decimal.Decimal, len(assets))
	for i := range assets {
		a := &assets[i]
		p, err := ru.oracle.Quote(ctx, a.Symbol, a.Class)
		if err != nil {
			// 1件の失敗で全体を止めず、ログに出力して次の資産へ
			log.Warnw("failed to quote asset, skipping", "id", a.ID, "symbol", a.Symbol, "error", err)
			res.Skipped++
			continue
		}
		prices[a.ID] = p.Round(entity.PriceScale)
	}

	if len(prices) > 0 {
		if err := ru.repo.UpdateCurrentPrices(ctx, prices); err != nil {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("persist refreshed prices: %w", err)
		}
	}
	res.Updated = len(prices)
	res.Duration = time.Since(start)

	log.Infow("price refresh finished",
		"scanned", res.Scanned, "updated", res.Updated, "skipped", res.Skipped,
		"duration_ms", res.Duration.Milliseconds())
	return res, nil
}
