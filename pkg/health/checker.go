package health

import (
	"context"
	"errors"

	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// PostgresChecker returns a health check function for the PostgreSQL pool
func PostgresChecker(pool *pgxpool.Pool) common.CheckFunc {
	return func(ctx context.Context) error {
		if pool == nil {
			return errors.New("database pool is nil")
		}
		return pool.Ping(ctx)
	}
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client redis.UniversalClient) common.CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis client is nil")
		}
		return client.Ping(ctx).Err()
	}
}

// NATSChecker reports whether the NATS connection is up
func NATSChecker(nc *nats.Conn) common.CheckFunc {
	return func(ctx context.Context) error {
		if nc == nil {
			return errors.New("nats connection is nil")
		}
		if !nc.IsConnected() {
			return errors.New("nats status: " + nc.Status().String())
		}
		return nil
	}
}
