// Package di provides dependency injection factories for creating application components.
package di

import (
	"portfolio_backend/internal/platform/marketsim"
)

// NewOracle creates the simulated price oracle configured from the environment.
func NewOracle() *marketsim.Oracle {
	cfg := marketsim.LoadConfig()
	return marketsim.NewOracle(cfg, nil)
}
