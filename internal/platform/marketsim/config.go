// Package marketsim provides a simulated price oracle for portfolio assets.
package marketsim

import (
	"os"
	"strconv"

	"portfolio_backend/internal/platform/logger"
)

const (
	// DefaultVariationPercentage is the base price band in percent.
	DefaultVariationPercentage = 10.0
	// MaxVariationPercentage is exclusive. Crypto doubles the band, so 50 keeps it below 100%.
	MaxVariationPercentage = 50.0
)

// Config holds configuration for the simulated market.
type Config struct {
	VariationPercentage float64 // Base variation band in percent, [0, 50)
}

// LoadConfig loads simulator configuration from environment variables.
// Out-of-range or unparsable values fall back to the default.
func LoadConfig() Config {
	cfg := Config{VariationPercentage: DefaultVariationPercentage}

	raw := os.Getenv("PRICE_VARIATION_PERCENTAGE")
	if raw == "" {
		return cfg
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validPercentage(v) {
		logger.Get().Warnw("invalid PRICE_VARIATION_PERCENTAGE, using default",
			"value", raw, "default", DefaultVariationPercentage)
		return cfg
	}
	cfg.VariationPercentage = v
	return cfg
}

func validPercentage(v float64) bool {
	return v >= 0 && v < MaxVariationPercentage
}
