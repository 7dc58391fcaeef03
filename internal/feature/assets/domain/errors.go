// Package domain defines domain-level errors for the assets feature.
package domain

import "errors"

// Domain errors for asset operations.
// Upper layers map them to transport status codes with errors.Is.
var (
	// ErrAssetNotFound indicates that no asset exists with the given id.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrValidation indicates that an asset violates a business rule.
	// It is wrapped with the name of the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAssetClass indicates a value outside the asset class enumeration.
	ErrInvalidAssetClass = errors.New("invalid asset class")

	// ErrPricingUnavailable indicates that the price oracle could not produce a quote.
	// Callers recover from it locally (purchase price fallback or skipping the asset).
	ErrPricingUnavailable = errors.New("pricing unavailable")
)
