// Package handler はassetsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"portfolio_backend/internal/feature/assets/domain"
	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/feature/assets/transport/http/dto"
	"portfolio_backend/internal/feature/assets/usecase"
	"portfolio_backend/internal/platform/logger"
	"portfolio_backend/internal/platform/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Error codes carried in dto.ErrorResponse.
const (
	CodeAssetNotFound     = "ASSET_NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidAssetClass = "INVALID_ASSET_CLASS"
	CodeRefreshInFlight   = "REFRESH_IN_PROGRESS"
	CodeInternal          = "INTERNAL_ERROR"
)

// AssetUsecase は資産操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AssetUsecase interface {
	Create(ctx context.Context, in usecase.AssetInput) (*entity.Asset, error)
	Get(ctx context.Context, id string) (*entity.Asset, error)
	List(ctx context.Context) ([]entity.Asset, error)
	ListByClass(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error)
	Search(ctx context.Context, symbol, name string) ([]entity.Asset, error)
	Update(ctx context.Context, id string, in usecase.AssetInput) (*entity.Asset, error)
	SetCurrentPrice(ctx context.Context, id string, price decimal.Decimal) (*entity.Asset, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (usecase.Summary, error)
}

// RefreshTrigger runs one price refresh now. It returns scheduler.ErrRunInFlight while a run is active.
type RefreshTrigger interface {
	TryRun(ctx context.Context) (usecase.RefreshResult, error)
}

// AssetHandler は資産のHTTPリクエストを処理します。
type AssetHandler struct {
	uc      AssetUsecase
	refresh RefreshTrigger
}

// NewAssetHandler は指定されたusecaseでAssetHandlerの新しいインスタンスを生成します。
func NewAssetHandler(uc AssetUsecase, refresh RefreshTrigger) *AssetHandler {
	return &AssetHandler{uc: uc, refresh: refresh}
}

// Create は資産を登録し、価格付けした結果を返します。
//
// エンドポイント例:
// POST /assets
func (h *AssetHandler) Create(c *gin.Context) {
	var req dto.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	a, err := h.uc.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAssetResponse(a))
}

// List は全資産、またはクラスで絞り込んだ資産を返します。
//
// エンドポイント例:
// GET /assets?class=CRYPTO
func (h *AssetHandler) List(c *gin.Context) {
	var (
		as  []entity.Asset
		err error
	)
	if raw, ok := c.GetQuery("class"); ok {
		class, valid := entity.ParseAssetClass(raw)
		if !valid {
			writeError(c, domain.ErrInvalidAssetClass)
			return
		}
		as, err = h.uc.ListByClass(c.Request.Context(), class)
	} else {
		as, err = h.uc.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAssetResponses(as))
}

// Search は銘柄コード、なければ名称の部分一致で資産を検索します。
//
// エンドポイント例:
// GET /assets/search?symbol=petr
func (h *AssetHandler) Search(c *gin.Context) {
	as, err := h.uc.Search(c.Request.Context(), c.Query("symbol"), c.Query("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAssetResponses(as))
}

// Get は1件の資産を返します。
func (h *AssetHandler) Get(c *gin.Context) {
	a, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAssetResponse(a))
}

// Update は資産の可変フィールドを置き換えます。
func (h *AssetHandler) Update(c *gin.Context) {
	var req dto.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	a, err := h.uc.Update(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAssetResponse(a))
}

// SetPrice は現在価格を上書きします。
//
// エンドポイント例:
// PATCH /assets/:id/price
func (h *AssetHandler) SetPrice(c *gin.Context) {
	var req dto.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	a, err := h.uc.SetCurrentPrice(c.Request.Context(), c.Param("id"), *req.CurrentPrice)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAssetResponse(a))
}

// Delete は資産を削除します。
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary はポートフォリオの集計を返します。
func (h *AssetHandler) Summary(c *gin.Context) {
	s, err := h.uc.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryResponse(s))
}

// Refresh は価格の一括更新を即時に1回実行します。
//
// エンドポイント例:
// POST /assets/refresh
func (h *AssetHandler) Refresh(c *gin.Context) {
	res, err := h.refresh.TryRun(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRefreshResponse(res))
}

// writeBindError maps a binding failure to 400, singling out an invalid asset class.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "asset_class" {
				abort(c, http.StatusBadRequest, CodeInvalidAssetClass, "assetClass must be one of STOCK, CRYPTO, FUND, FIXED_INCOME, OTHER")
				return
			}
		}
	}
	abort(c, http.StatusBadRequest, CodeValidation, err.Error())
}

// writeError maps domain errors to status codes. Unknown errors are logged and hidden.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		abort(c, http.StatusNotFound, CodeAssetNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidAssetClass):
		abort(c, http.StatusBadRequest, CodeInvalidAssetClass, err.Error())
	case errors.Is(err, domain.ErrValidation):
		abort(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, scheduler.ErrRunInFlight):
		abort(c, http.StatusConflict, CodeRefreshInFlight, err.Error())
	default:
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		abort(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: dto.ErrorBody{Code: code, Message: msg}})
}
