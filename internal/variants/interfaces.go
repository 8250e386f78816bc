package variants

import (
	"context"

	"github.com/google/uuid"
)

// Store is the backing store consulted on a session cache miss
type Store interface {
	ActiveVariants(ctx context.Context, contentKey, locale string) ([]*ContentVariant, error)
}

// EventSink persists or forwards a telemetry event
type EventSink interface {
	Record(ctx context.Context, event *Event) error
}

// RepositoryInterface defines the interface for content variant repository operations
type RepositoryInterface interface {
	Store
	EventSink

	CreateVariant(ctx context.Context, variant *ContentVariant) error
	GetVariantByID(ctx context.Context, id uuid.UUID) (*ContentVariant, error)
	ListVariants(ctx context.Context, contentKey, locale string, limit, offset int) ([]*ContentVariant, error)
	SetVariantActive(ctx context.Context, id uuid.UUID, active bool) error
	GetEventCounts(ctx context.Context, contentKey, locale string) (map[string]map[EventType]int64, error)
}

// Cache holds one session's selections, keyed by cacheKey(contentKey, locale)
type Cache interface {
	Get(ctx context.Context, key string) (*VariantSelection, bool)
	Set(ctx context.Context, key string, selection *VariantSelection)
	Clear(ctx context.Context)
}

// CacheProvider hands out the cache owned by a session
type CacheProvider interface {
	ForSession(sessionID string) Cache
}

// Notifier accepts telemetry without ever blocking or failing the caller
type Notifier interface {
	Notify(event Event)
}
