package variants

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisSessionPrefix = "variants:session:"

// RedisStore keeps each session's selections in one Redis hash so that every
// instance behind the load balancer serves the same variant to a session.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore creates a store whose session hashes expire after ttl
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

// ForSession returns a cache view over the session's hash
func (s *RedisStore) ForSession(sessionID string) Cache {
	return &redisCache{
		client: s.client,
		key:    redisSessionPrefix + sessionID,
		ttl:    s.ttl,
	}
}

type redisCache struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// Get treats any Redis failure as a miss.
func (r *redisCache) Get(ctx context.Context, key string) (*VariantSelection, bool) {
	raw, err := r.client.HGet(ctx, r.key, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithContext(ctx).Warn("variant cache read failed",
				zap.String("field", key),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var sel VariantSelection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		logger.WithContext(ctx).Warn("variant cache entry corrupt",
			zap.String("field", key),
			zap.Error(err),
		)
		return nil, false
	}
	return &sel, true
}

func (r *redisCache) Set(ctx context.Context, key string, selection *VariantSelection) {
	if selection == nil {
		return
	}
	data, err := json.Marshal(selection)
	if err != nil {
		return
	}

	if err := r.client.HSet(ctx, r.key, key, string(data)).Err(); err != nil {
		logger.WithContext(ctx).Warn("variant cache write failed",
			zap.String("field", key),
			zap.Error(err),
		)
		return
	}
	if err := r.client.Expire(ctx, r.key, r.ttl).Err(); err != nil {
		logger.WithContext(ctx).Warn("variant cache expiry failed", zap.Error(err))
	}
}

func (r *redisCache) Clear(ctx context.Context) {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		logger.WithContext(ctx).Warn("variant cache clear failed", zap.Error(err))
	}
}
