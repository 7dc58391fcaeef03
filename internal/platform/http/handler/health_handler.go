// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/platform/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency whose availability gates readiness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler は /healthz と /readyz を処理します。
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler creates a handler. deps maps a name (e.g. "database") to its probe.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Live はプロセスの生存確認です。依存先には問い合わせません。
// HEAD は本文なしの200、OPTIONS は204、それ以外は {"status":"ok"} を返します。
func (h *HealthHandler) Live(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Ready pings every dependency and answers 503 when one of them fails.
func (h *HealthHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	status := http.StatusOK
	for name, p := range h.deps {
		if err := p.PingContext(ctx); err != nil {
			logger.Get().Warnw("readiness check failed", "dependency", name, "error", err)
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := gin.H{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	c.JSON(status, body)
}
