package foods

import (
	"github.com/suvamneog/foodanalyserr/internal/config"
	"github.com/suvamneog/foodanalyserr/internal/telemetry"
)

// NewProvider builds the configured provider behind the lookup cache.
func NewProvider(cfg config.FoodsConfig, metrics *telemetry.Manager) Provider {
	var inner Provider
	switch cfg.Mode {
	case config.FoodsModeHTTP:
		inner = NewHTTPProvider(cfg)
	default:
		inner = NewMockProvider()
	}
	return NewCachedProvider(inner, 0, metrics)
}
