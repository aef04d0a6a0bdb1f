package drafts

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBackend persists drafts in redis with a TTL so abandoned forms age
// out instead of accumulating.
type RedisBackend struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// NewRedisBackend connects a backend to the given redis address. A failed
// ping is logged rather than fatal: the board works without drafts.
func NewRedisBackend(addr string, logger *zap.Logger) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	sugar := logger.Sugar()
	if err := client.Ping(context.Background()).Err(); err != nil {
		sugar.Errorw("Redis connection failed at startup", "addr", addr, "error", err)
	} else {
		sugar.Infow("Redis connected for draft persistence", "addr", addr)
	}

	return &RedisBackend{client: client, logger: sugar}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		b.logger.Errorw("Draft read failed", "key", key, "error", err)
		return nil, err
	}
	return payload, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		b.logger.Errorw("Draft write failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		b.logger.Errorw("Draft delete failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Close releases the redis connection.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
