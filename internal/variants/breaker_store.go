package variants

import (
	"context"

	"github.com/dendrix-ai/dendrix-web/pkg/resilience"
)

// BreakerStore guards a Store with a circuit breaker so that a failing
// backend is skipped instead of being queried on every cache miss
type BreakerStore struct {
	next    Store
	breaker *resilience.CircuitBreaker
}

// NewBreakerStore wraps next
func NewBreakerStore(next Store, settings resilience.Settings) *BreakerStore {
	return &BreakerStore{
		next:    next,
		breaker: resilience.NewCircuitBreaker(settings, resilience.GracefulDegradation(settings.Name)),
	}
}

// ActiveVariants queries the wrapped store unless the breaker is open
func (b *BreakerStore) ActiveVariants(ctx context.Context, contentKey, locale string) ([]*ContentVariant, error) {
	result, err := b.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return b.next.ActiveVariants(ctx, contentKey, locale)
	})
	if err != nil {
		return nil, err
	}
	variants, _ := result.([]*ContentVariant)
	return variants, nil
}
