// Package validator registers custom binding rules with Gin's validator engine.
package validator

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/assets/domain/entity"
)

var once sync.Once

// Register registers all custom validators with the Gin binding engine.
// It is safe to call more than once.
func Register() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Apply(v)
		}
	})
}

// Apply installs the custom rules on v.
//
//   - asset_class: case-insensitive member of the asset class enumeration
//   - decimal values are validated as float64, so gt/gte/lte work on decimal.Decimal fields
func Apply(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	_ = v.RegisterValidation("asset_class", validateAssetClass)
}

// decimalValue は decimal 型をバリデーション用の float64 に変換します。
func decimalValue(field reflect.Value) any {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := d.Float64()
		return f
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		f, _ := d.Decimal.Float64()
		return f
	}
	return nil
}

func validateAssetClass(fl validator.FieldLevel) bool {
	_, ok := entity.ParseAssetClass(fl.Field().String())
	return ok
}
