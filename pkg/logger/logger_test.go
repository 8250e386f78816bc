package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Environments(t *testing.T) {
	require.NoError(t, Init("production"))
	assert.NotNil(t, Get())

	require.NoError(t, Init("development"))
	assert.NotNil(t, Get())
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "req-123")
	assert.Equal(t, "req-123", CorrelationIDFromContext(ctx))
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
}

func TestWithContext_NeverNil(t *testing.T) {
	assert.NotNil(t, WithContext(context.Background()))
	assert.NotNil(t, WithContext(ContextWithCorrelationID(context.Background(), "abc")))
}
