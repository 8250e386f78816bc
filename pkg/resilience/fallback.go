package resilience

import (
	"context"

	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"go.uber.org/zap"
)

// FallbackFunc decides the result of a call the breaker rejected
type FallbackFunc func(ctx context.Context, err error) (interface{}, error)

// NoopFallback reports ErrCircuitOpen
func NoopFallback(ctx context.Context, err error) (interface{}, error) {
	return nil, ErrCircuitOpen
}

// StaticFallback answers rejected calls with a fixed value
func StaticFallback(defaultValue interface{}) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.WithContext(ctx).Warn("circuit breaker open, serving static fallback", zap.Error(err))
		return defaultValue, nil
	}
}

// GracefulDegradation logs the rejection and reports ErrCircuitOpen so the
// caller can fall back on its own terms
func GracefulDegradation(dependency string) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.WithContext(ctx).Warn("circuit breaker open, dependency degraded",
			zap.String("dependency", dependency),
			zap.Error(err),
		)
		return nil, ErrCircuitOpen
	}
}
