package marketsim

import (
	"portfolio_backend/internal/feature/assets/domain/entity"

	"github.com/shopspring/decimal"
)

// basePrices は資産クラスごとの基準価格テーブルです。OTHER にはテーブルがありません。
var basePrices = map[entity.AssetClass]map[string]decimal.Decimal{
	entity.ClassStock: {
		"PETR4": decimal.RequireFromString("30.50"),
		"VALE3": decimal.RequireFromString("68.90"),
		"ITUB4": decimal.RequireFromString("32.15"),
		"BBAS3": decimal.RequireFromString("56.80"),
		"BBDC4": decimal.RequireFromString("17.45"),
	},
	entity.ClassCrypto: {
		"BTC": decimal.RequireFromString("250000.00"),
		"ETH": decimal.RequireFromString("16000.00"),
		"ADA": decimal.RequireFromString("2.50"),
		"SOL": decimal.RequireFromString("350.00"),
		"XRP": decimal.RequireFromString("3.20"),
	},
	entity.ClassFund: {
		"BOVA11": decimal.RequireFromString("105.30"),
		"IVVB11": decimal.RequireFromString("245.80"),
		"HGLG11": decimal.RequireFromString("178.90"),
		"SMAL11": decimal.RequireFromString("121.70"),
		"HASH11": decimal.RequireFromString("59.80"),
	},
	entity.ClassFixedIncome: {
		"CDB":     decimal.RequireFromString("1000.00"),
		"LCI":     decimal.RequireFromString("1000.00"),
		"LCA":     decimal.RequireFromString("1000.00"),
		"TESOURO": decimal.RequireFromString("1000.00"),
	},
}

// defaultPrices はテーブルに無い銘柄に使うクラス別のデフォルト価格です。
var defaultPrices = map[entity.AssetClass]decimal.Decimal{
	entity.ClassStock:       decimal.RequireFromString("50.00"),
	entity.ClassCrypto:      decimal.RequireFromString("100.00"),
	entity.ClassFund:        decimal.RequireFromString("100.00"),
	entity.ClassFixedIncome: decimal.RequireFromString("1000.00"),
	entity.ClassOther:       decimal.RequireFromString("100.00"),
}

// fallbackPrice is used for a class outside the enumeration.
var fallbackPrice = decimal.RequireFromString("100.00")

// BasePrice returns the reference price for symbol within class.
// Symbols are expected to be normalized already.
func BasePrice(symbol string, class entity.AssetClass) decimal.Decimal {
	if p, ok := basePrices[class][symbol]; ok {
		return p
	}
	if p, ok := defaultPrices[class]; ok {
		return p
	}
	return fallbackPrice
}

// variationMultiplier はクラスごとの変動幅の倍率を返します。
func variationMultiplier(class entity.AssetClass) decimal.Decimal {
	switch class {
	case entity.ClassCrypto:
		return decimal.NewFromInt(2)
	case entity.ClassStock:
		return decimal.RequireFromString("1.5")
	default:
		return decimal.NewFromInt(1)
	}
}
