package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio_backend/internal/feature/assets/domain"
	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/feature/assets/transport/handler"
	"portfolio_backend/internal/feature/assets/usecase"
	"portfolio_backend/internal/platform/scheduler"
	appvalidator "portfolio_backend/internal/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// mockAssetUsecase はAssetUsecaseインターフェースのモック実装です。
type mockAssetUsecase struct {
	CreateFunc          func(ctx context.Context, in usecase.AssetInput) (*entity.Asset, error)
	GetFunc             func(ctx context.Context, id string) (*entity.Asset, error)
	ListFunc            func(ctx context.Context) ([]entity.Asset, error)
	ListByClassFunc     func(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error)
	SearchFunc          func(ctx context.Context, symbol, name string) ([]entity.Asset, error)
	UpdateFunc          func(ctx context.Context, id string, in usecase.AssetInput) (*entity.Asset, error)
	SetCurrentPriceFunc func(ctx context.Context, id string, price decimal.Decimal) (*entity.Asset, error)
	DeleteFunc          func(ctx context.Context, id string) error
	SummaryFunc         func(ctx context.Context) (usecase.Summary, error)
}

func (m *mockAssetUsecase) Create(ctx context.Context, in usecase.AssetInput) (*entity.Asset, error) {
	return m.CreateFunc(ctx, in)
}

func (m *mockAssetUsecase) Get(ctx context.Context, id string) (*entity.Asset, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockAssetUsecase) List(ctx context.Context) ([]entity.Asset, error) {
	return m.ListFunc(ctx)
}

func (m *mockAssetUsecase) ListByClass(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error) {
	return m.ListByClassFunc(ctx, class)
}

func (m *mockAssetUsecase) Search(ctx context.Context, symbol, name string) ([]entity.Asset, error) {
	return m.SearchFunc(ctx, symbol, name)
}

func (m *mockAssetUsecase) Update(ctx context.Context, id string, in usecase.AssetInput) (*entity.Asset, error) {
	return m.UpdateFunc(ctx, id, in)
}

func (m *mockAssetUsecase) SetCurrentPrice(ctx context.Context, id string, price decimal.Decimal) (*entity.Asset, error) {
	return m.SetCurrentPriceFunc(ctx, id, price)
}

func (m *mockAssetUsecase) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockAssetUsecase) Summary(ctx context.Context) (usecase.Summary, error) {
	return m.SummaryFunc(ctx)
}

// mockRefreshTrigger はRefreshTriggerのモック実装です。
type mockRefreshTrigger struct {
	TryRunFunc func(ctx context.Context) (usecase.RefreshResult, error)
}

func (m *mockRefreshTrigger) TryRun(ctx context.Context) (usecase.RefreshResult, error) {
	return m.TryRunFunc(ctx)
}

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func petr4() *entity.Asset {
	a := &entity.Asset{
		ID:            "0190a0e0-0000-7000-8000-000000000001",
		Class:         entity.ClassStock,
		Symbol:        "PETR4",
		DisplayName:   "PETR4",
		Quantity:      decimal.RequireFromString("100"),
		PurchasePrice: decimal.RequireFromString("28.50"),
		PurchaseDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
	}
	a.SetCurrentPrice(decimal.RequireFromString("30.50"))
	return a
}

const petr4JSON = `{
	"id":"0190a0e0-0000-7000-8000-000000000001",
	"assetClass":"STOCK",
	"symbol":"PETR4",
	"displayName":"PETR4",
	"quantity":"100.0000",
	"purchasePrice":"28.50",
	"currentPrice":"30.50",
	"purchaseDate":"2024-01-15",
	"investedValue":"2850.00",
	"currentValue":"3050.00",
	"profitLoss":"200.00",
	"profitLossPercentage":"7.0175",
	"createdAt":"2024-06-01T12:00:00Z",
	"updatedAt":"2024-06-01T12:00:00Z"
}`

func errorJSON(code, msg string) string {
	return fmt.Sprintf(`{"error":{"code":%q,"message":%q}}`, code, msg)
}

func newRouter(uc handler.AssetUsecase, trig handler.RefreshTrigger) *gin.Engine {
	appvalidator.Register()
	h := handler.NewAssetHandler(uc, trig)

	r := gin.New()
	g := r.Group("/assets")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/summary", h.Summary)
	g.POST("/refresh", h.Refresh)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/price", h.SetPrice)
	g.DELETE("/:id", h.Delete)
	return r
}

// TestAssetHandler はAPIのHTTPリクエスト/レスポンス処理をテストします。
func TestAssetHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validBody := `{"assetClass":"stock","symbol":" petr4 ","quantity":100,"purchasePrice":"28.50","purchaseDate":"2024-01-15"}`

	tests := []struct {
		name           string
		method         string
		url            string
		body           string
		uc             *mockAssetUsecase
		trig           *mockRefreshTrigger
		expectedStatus int
		expectedBody   string // JSON文字列として比較
	}{
		{
			name:   "create: success",
			method: http.MethodPost,
			url:    "/assets",
			body:   validBody,
			uc: &mockAssetUsecase{
				CreateFunc: func(ctx context.Context, in usecase.AssetInput) (*entity.Asset, error) {
					assert.Equal(t, entity.ClassStock, in.Class)
					assert.Equal(t, " petr4 ", in.Symbol)
					assert.True(t, decimal.RequireFromString("100").Equal(in.Quantity))
					assert.True(t, decimal.RequireFromString("28.50").Equal(in.PurchasePrice))
					assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), in.PurchaseDate)
					return petr4(), nil
				},
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   petr4JSON,
		},
		{
			name:           "create: invalid asset class",
			method:         http.MethodPost,
			url:            "/assets",
			body:           `{"assetClass":"BOND","symbol":"X","quantity":1,"purchasePrice":1,"purchaseDate":"2024-01-15"}`,
			uc:             &mockAssetUsecase{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   errorJSON(handler.CodeInvalidAssetClass, "assetClass must be one of STOCK, CRYPTO, FUND, FIXED_INCOME, OTHER"),
		},
		{
			name:           "create: quantity below minimum",
			method:         http.MethodPost,
			url:            "/assets",
			body:           `{"assetClass":"STOCK","symbol":"X","quantity":0,"purchasePrice":1,"purchaseDate":"2024-01-15"}`,
			uc:             &mockAssetUsecase{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create: malformed date",
			method:         http.MethodPost,
			url:            "/assets",
			body:           `{"assetClass":"STOCK","symbol":"X","quantity":1,"purchasePrice":1,"purchaseDate":"15/01/2024"}`,
			uc:             &mockAssetUsecase{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create: malformed json",
			method:         http.MethodPost,
			url:            "/assets",
			body:           `{"assetClass":`,
			uc:             &mockAssetUsecase{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "create: domain validation error",
			method: http.MethodPost,
			url:    "/assets",
			body:   validBody,
			uc: &mockAssetUsecase{
				CreateFunc: func(ctx context.Context, in usecase.AssetInput) (*entity.Asset, error) {
					return nil, fmt.Errorf("%w: purchase date must not be in the future", domain.ErrValidation)
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   errorJSON(handler.CodeValidation, "validation failed: purchase date must not be in the future"),
		},
		{
			name:   "list: all",
			method: http.MethodGet,
			url:    "/assets",
			uc: &mockAssetUsecase{
				ListFunc: func(ctx context.Context) ([]entity.Asset, error) { return []entity.Asset{*petr4()}, nil },
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "[" + petr4JSON + "]",
		},
		{
			name:   "list: empty renders as array",
			method: http.MethodGet,
			url:    "/assets",
			uc: &mockAssetUsecase{
				ListFunc: func(ctx context.Context) ([]entity.Asset, error) { return nil, nil },
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:   "list: by class",
			method: http.MethodGet,
			url:    "/assets?class=crypto",
			uc: &mockAssetUsecase{
				ListByClassFunc: func(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error) {
					assert.Equal(t, entity.ClassCrypto, class)
					return []entity.Asset{}, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "list: invalid class",
			method:         http.MethodGet,
			url:            "/assets?class=bond",
			uc:             &mockAssetUsecase{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   errorJSON(handler.CodeInvalidAssetClass, "invalid asset class"),
		},
		{
			name:   "search: passes both parameters",
			method: http.MethodGet,
			url:    "/assets/search?symbol=pet&name=petro",
			uc: &mockAssetUsecase{
				SearchFunc: func(ctx context.Context, symbol, name string) ([]entity.Asset, error) {
					assert.Equal(t, "pet", symbol)
					assert.Equal(t, "petro", name)
					return []entity.Asset{*petr4()}, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "[" + petr4JSON + "]",
		},
		{
			name:   "get: success",
			method: http.MethodGet,
			url:    "/assets/0190a0e0-0000-7000-8000-000000000001",
			uc: &mockAssetUsecase{
				GetFunc: func(ctx context.Context, id string) (*entity.Asset, error) { return petr4(), nil },
			},
			expectedStatus: http.StatusOK,
			expectedBody:   petr4JSON,
		},
		{
			name:   "get: not found",
			method: http.MethodGet,
			url:    "/assets/missing",
			uc: &mockAssetUsecase{
				GetFunc: func(ctx context.Context, id string) (*entity.Asset, error) { return nil, domain.ErrAssetNotFound },
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   errorJSON(handler.CodeAssetNotFound, "asset not found"),
		},
		{
			name:   "get: unexpected error is hidden",
			method: http.MethodGet,
			url:    "/assets/a1",
			uc: &mockAssetUsecase{
				GetFunc: func(ctx context.Context, id string) (*entity.Asset, error) {
					return nil, errors.New("pq: connection reset by peer")
				},
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   errorJSON(handler.CodeInternal, "internal server error"),
		},
		{
			name:   "update: success",
			method: http.MethodPut,
			url:    "/assets/a1",
			body:   validBody,
			uc: &mockAssetUsecase{
				UpdateFunc: func(ctx context.Context, id string, in usecase.AssetInput) (*entity.Asset, error) {
					assert.Equal(t, "a1", id)
					return petr4(), nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   petr4JSON,
		},
		{
			name:   "update: not found",
			method: http.MethodPut,
			url:    "/assets/missing",
			body:   validBody,
			uc: &mockAssetUsecase{
				UpdateFunc: func(ctx context.Context, id string, in usecase.AssetInput) (*entity.Asset, error) {
					return nil, domain.ErrAssetNotFound
				},
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   errorJSON(handler.CodeAssetNotFound, "asset not found"),
		},
		{
			name:   "set price: success",
			method: http.MethodPatch,
			url:    "/assets/a1/price",
			body:   `{"currentPrice":"30.50"}`,
			uc: &mockAssetUsecase{
				SetCurrentPriceFunc: func(ctx context.Context, id string, price decimal.Decimal) (*entity.Asset, error) {
					assert.Equal(t, "a1", id)
					assert.True(t, decimal.RequireFromString("30.50").Equal(price))
					return petr4(), nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   petr4JSON,
		},
		{
			name:           "set price: missing price",
			method:         http.MethodPatch,
			url:            "/assets/a1/price",
			body:           `{}`,
			uc:             &mockAssetUsecase{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "set price: negative price",
			method:         http.MethodPatch,
			url:            "/assets/a1/price",
			body:           `{"currentPrice":-1}`,
			uc:             &mockAssetUsecase{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "delete: success",
			method: http.MethodDelete,
			url:    "/assets/a1",
			uc: &mockAssetUsecase{
				DeleteFunc: func(ctx context.Context, id string) error { return nil },
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "delete: not found",
			method: http.MethodDelete,
			url:    "/assets/missing",
			uc: &mockAssetUsecase{
				DeleteFunc: func(ctx context.Context, id string) error { return domain.ErrAssetNotFound },
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   errorJSON(handler.CodeAssetNotFound, "asset not found"),
		},
		{
			name:   "summary: success",
			method: http.MethodGet,
			url:    "/assets/summary",
			uc: &mockAssetUsecase{
				SummaryFunc: func(ctx context.Context) (usecase.Summary, error) {
					return usecase.Summarize([]entity.Asset{*petr4()}), nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"totalInvested":"2850.00",
				"totalCurrentValue":"3050.00",
				"totalProfitLoss":"200.00",
				"totalByClass":{"STOCK":"2850.00","CRYPTO":"0.00","FUND":"0.00","FIXED_INCOME":"0.00","OTHER":"0.00"},
				"assetCount":1
			}`,
		},
		{
			name:   "refresh: success",
			method: http.MethodPost,
			url:    "/assets/refresh",
			uc:     &mockAssetUsecase{},
			trig: &mockRefreshTrigger{
				TryRunFunc: func(ctx context.Context) (usecase.RefreshResult, error) {
					return usecase.RefreshResult{Scanned: 8, Updated: 7, Skipped: 1, Duration: 12 * time.Millisecond}, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"scanned":8,"updated":7,"skipped":1,"durationMs":12}`,
		},
		{
			name:   "refresh: run in flight",
			method: http.MethodPost,
			url:    "/assets/refresh",
			uc:     &mockAssetUsecase{},
			trig: &mockRefreshTrigger{
				TryRunFunc: func(ctx context.Context) (usecase.RefreshResult, error) {
					return usecase.RefreshResult{}, scheduler.ErrRunInFlight
				},
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   errorJSON(handler.CodeRefreshInFlight, "a run is already in flight"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trig := tt.trig
			if trig == nil {
				trig = &mockRefreshTrigger{}
			}
			router := newRouter(tt.uc, trig)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
