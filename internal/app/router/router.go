package router

import (
	"time"

	assethandler "portfolio_backend/internal/feature/assets/transport/handler"
	"portfolio_backend/internal/platform/http/handler"
	"portfolio_backend/internal/platform/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. allowedOrigins configures CORS; "*" allows any origin.
func NewRouter(health *handler.HealthHandler, assets *assethandler.AssetHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogging(), newCORS(allowedOrigins))

	// 導通確認用
	r.GET("/healthz", health.Live)
	r.HEAD("/healthz", health.Live)
	r.OPTIONS("/healthz", health.Live)
	// 依存先（DB, Redis）の疎通確認
	r.GET("/readyz", health.Ready)

	a := r.Group("/assets")
	{
		a.POST("", assets.Create)
		a.GET("", assets.List)
		a.GET("/search", assets.Search)
		a.GET("/summary", assets.Summary)
		// 価格の一括更新を手動で実行
		a.POST("/refresh", assets.Refresh)
		a.GET("/:id", assets.Get)
		a.PUT("/:id", assets.Update)
		a.PATCH("/:id/price", assets.SetPrice)
		a.DELETE("/:id", assets.Delete)
	}

	return r
}

func newCORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
