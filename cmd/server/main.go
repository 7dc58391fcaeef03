package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/app/router"
	assethandler "portfolio_backend/internal/feature/assets/transport/handler"
	"portfolio_backend/internal/feature/assets/usecase"
	"portfolio_backend/internal/platform/config"
	infradb "portfolio_backend/internal/platform/db"
	platformhttp "portfolio_backend/internal/platform/http"
	"portfolio_backend/internal/platform/http/handler"
	"portfolio_backend/internal/platform/logger"
	infraredis "portfolio_backend/internal/platform/redis"
	"portfolio_backend/internal/platform/scheduler"
	"portfolio_backend/internal/platform/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger.Init(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		logger.Get().Errorw("server stopped with error", "error", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run wires the application and blocks until ctx is cancelled or a component fails.
// Every resource it opens is closed before it returns.
func run(ctx context.Context, cfg config.Config) error {
	log := logger.Get()

	// db
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}()
	deps := map[string]handler.Pinger{"database": sqlDB}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err != nil {
		log.Warnw("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		deps["redis"] = di.RedisPinger{Client: rdb}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorw("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository（Redisが使える場合はキャッシュでラップ）
	assetRepo := di.NewAssetRepository(rdb, db, cfg.CacheTTL)
	oracle := di.NewOracle()

	if cfg.SeedSampleData {
		n, err := usecase.SeedSampleData(ctx, assetRepo)
		if err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
		if n > 0 {
			log.Infow("sample portfolio seeded", "assets", n)
		}
	}

	// Usecase
	assetUC := usecase.NewAssetUsecase(assetRepo, oracle, cfg.QuoteTimeout)
	refreshUC := usecase.NewRefreshUsecase(assetRepo, oracle)
	refresher := scheduler.New("price-refresh", cfg.RefreshInterval, refreshUC.RefreshAll)

	// Handler
	validator.Register()
	assetH := assethandler.NewAssetHandler(assetUC, refresher)
	healthH := handler.NewHealthHandler(deps)

	// ルータ生成
	r := router.NewRouter(healthH, assetH, cfg.CORSAllowedOrigins)
	srv := platformhttp.NewServer(":"+cfg.Port, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return refresher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
