package entity

import "strings"

// AssetClass is the fixed category of an investment.
type AssetClass string

const (
	ClassStock       AssetClass = "STOCK"
	ClassCrypto      AssetClass = "CRYPTO"
	ClassFund        AssetClass = "FUND"
	ClassFixedIncome AssetClass = "FIXED_INCOME"
	ClassOther       AssetClass = "OTHER"
)

// AssetClasses lists every asset class in declaration order.
// Summaries rely on it to emit one bucket per class.
var AssetClasses = []AssetClass{
	ClassStock,
	ClassCrypto,
	ClassFund,
	ClassFixedIncome,
	ClassOther,
}

// IsValid reports whether c is one of the enumerated classes.
func (c AssetClass) IsValid() bool {
	switch c {
	case ClassStock, ClassCrypto, ClassFund, ClassFixedIncome, ClassOther:
		return true
	}
	return false
}

func (c AssetClass) String() string { return string(c) }

// ParseAssetClass converts user input ("stock", " Fixed_Income ") into an AssetClass.
// ok is false for anything outside the enumeration.
func ParseAssetClass(s string) (AssetClass, bool) {
	c := AssetClass(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.IsValid()
}
