package variants

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ========================================
// MOCK REPOSITORY
// ========================================

type mockVariantsRepository struct {
	mock.Mock
}

func (m *mockVariantsRepository) ActiveVariants(ctx context.Context, contentKey, locale string) ([]*ContentVariant, error) {
	args := m.Called(ctx, contentKey, locale)
	variants, _ := args.Get(0).([]*ContentVariant)
	return variants, args.Error(1)
}

func (m *mockVariantsRepository) Record(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockVariantsRepository) CreateVariant(ctx context.Context, variant *ContentVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *mockVariantsRepository) GetVariantByID(ctx context.Context, id uuid.UUID) (*ContentVariant, error) {
	args := m.Called(ctx, id)
	variant, _ := args.Get(0).(*ContentVariant)
	return variant, args.Error(1)
}

func (m *mockVariantsRepository) ListVariants(ctx context.Context, contentKey, locale string, limit, offset int) ([]*ContentVariant, error) {
	args := m.Called(ctx, contentKey, locale, limit, offset)
	variants, _ := args.Get(0).([]*ContentVariant)
	return variants, args.Error(1)
}

func (m *mockVariantsRepository) SetVariantActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockVariantsRepository) GetEventCounts(ctx context.Context, contentKey, locale string) (map[string]map[EventType]int64, error) {
	args := m.Called(ctx, contentKey, locale)
	counts, _ := args.Get(0).(map[string]map[EventType]int64)
	return counts, args.Error(1)
}

// ========================================
// TEST HELPERS
// ========================================

// recordingNotifier keeps every event it is handed
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Notify(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// recordingSink is an EventSink that can be told to fail
type recordingSink struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (r *recordingSink) Record(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func variant(name string, weight float64) *ContentVariant {
	return &ContentVariant{
		ID:          uuid.New(),
		ContentKey:  "hero",
		Locale:      "en",
		VariantName: name,
		Content:     "content " + name,
		Weight:      weight,
		IsActive:    true,
	}
}

func fixedRand(v float64) func() float64 {
	return func() float64 { return v }
}
