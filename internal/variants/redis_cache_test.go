package variants

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisStore(client, time.Minute).ForSession("s1")

	mock.ExpectHGet("variants:session:s1", "hero:en").RedisNil()

	_, ok := cache.Get(context.Background(), "hero:en")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisStore(client, time.Minute).ForSession("s1")

	sel := VariantSelection{ContentKey: "hero", Locale: "en", VariantName: "B", Content: "Hello"}
	raw, err := json.Marshal(sel)
	require.NoError(t, err)
	mock.ExpectHGet("variants:session:s1", "hero:en").SetVal(string(raw))

	got, ok := cache.Get(context.Background(), "hero:en")
	require.True(t, ok)
	assert.Equal(t, sel, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_ErrorIsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisStore(client, time.Minute).ForSession("s1")

	mock.ExpectHGet("variants:session:s1", "hero:en").SetErr(errors.New("connection refused"))

	_, ok := cache.Get(context.Background(), "hero:en")
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisStore(client, time.Minute).ForSession("s1")

	mock.ExpectHGet("variants:session:s1", "hero:en").SetVal("{not json")

	_, ok := cache.Get(context.Background(), "hero:en")
	assert.False(t, ok)
}

func TestRedisCache_SetRefreshesTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisStore(client, 15*time.Minute).ForSession("s1")

	sel := &VariantSelection{ContentKey: "hero", Locale: "en", VariantName: "A", Content: "Hi"}
	raw, err := json.Marshal(sel)
	require.NoError(t, err)

	mock.ExpectHSet("variants:session:s1", "hero:en", string(raw)).SetVal(1)
	mock.ExpectExpire("variants:session:s1", 15*time.Minute).SetVal(true)

	cache.Set(context.Background(), "hero:en", sel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Clear(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisStore(client, time.Minute).ForSession("s1")

	mock.ExpectDel("variants:session:s1").SetVal(1)

	cache.Clear(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}
