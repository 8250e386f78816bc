package variants

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dendrix-ai/dendrix-web/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBreakerStore_PassesThrough(t *testing.T) {
	repo := new(mockVariantsRepository)
	repo.On("ActiveVariants", mock.Anything, "hero", "en").Return([]*ContentVariant{variant("A", 1)}, nil)

	store := NewBreakerStore(repo, resilience.BuildSettings("variants-pass", time.Minute, time.Minute, 2, 1))

	got, err := store.ActiveVariants(context.Background(), "hero", "en")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].VariantName)
}

func TestBreakerStore_OpensAndShortCircuits(t *testing.T) {
	repo := new(mockVariantsRepository)
	repo.On("ActiveVariants", mock.Anything, "hero", "en").Return(nil, errors.New("timeout"))

	store := NewBreakerStore(repo, resilience.BuildSettings("variants-open", time.Minute, time.Minute, 2, 1))

	for i := 0; i < 2; i++ {
		_, err := store.ActiveVariants(context.Background(), "hero", "en")
		require.Error(t, err)
	}

	_, err := store.ActiveVariants(context.Background(), "hero", "en")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	repo.AssertNumberOfCalls(t, "ActiveVariants", 2)
}

func TestBreakerStore_OpenBreakerResolvesToDefault(t *testing.T) {
	repo := new(mockVariantsRepository)
	repo.On("ActiveVariants", mock.Anything, "hero", "en").Return(nil, errors.New("timeout"))

	store := NewBreakerStore(repo, resilience.BuildSettings("variants-default", time.Minute, time.Minute, 1, 1))
	svc := NewService(repo, WithStore(store))
	r := svc.ForSession("s", nil)

	assert.Nil(t, r.Resolve(context.Background(), "hero", "en"))
	assert.Nil(t, r.Resolve(context.Background(), "hero", "en"))
	repo.AssertNumberOfCalls(t, "ActiveVariants", 1)
}
