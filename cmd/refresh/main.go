// Command refresh runs one price refresh pass over every stored asset and exits.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/feature/assets/usecase"
	"portfolio_backend/internal/platform/config"
	infradb "portfolio_backend/internal/platform/db"
	"portfolio_backend/internal/platform/logger"
	infraredis "portfolio_backend/internal/platform/redis"

	redisv9 "github.com/redis/go-redis/v9"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger.Init(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	err := run(ctx, cfg)
	cancel()
	if err != nil {
		logger.Get().Errorw("refresh failed", "error", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	// 価格更新後にサーバー側のキャッシュが古くならないよう、Redisがあれば同じ経路で書き込む
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err == nil {
		rdb = tmp
		defer func() { _ = rdb.Close() }()
	}

	uc := usecase.NewRefreshUsecase(di.NewAssetRepository(rdb, db, cfg.CacheTTL), di.NewOracle())
	res, err := uc.RefreshAll(ctx)
	if err != nil {
		return err
	}
	logger.Get().Infow("refresh ok",
		"scanned", res.Scanned, "updated", res.Updated, "skipped", res.Skipped, "duration", res.Duration)
	return nil
}
