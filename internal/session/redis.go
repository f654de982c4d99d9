package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/config"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
)

const redisKeyPrefix = "websession:"

// RedisBackend stores sessions as JSON values under a fixed key prefix.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend connects to Redis using the provided configuration.
func NewRedisBackend(cfg config.RedisConfig, logger *zap.Logger) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisBackend{client: client, ttl: cfg.SessionTTL}
}

// Load fetches and decodes a session.
func (b *RedisBackend) Load(ctx context.Context, id string) (domain.Session, bool, error) {
	data, err := b.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, false, nil
		}
		return domain.Session{}, false, fmt.Errorf("redis get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.Session{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, true, nil
}

// Save encodes and writes a session, refreshing its TTL.
func (b *RedisBackend) Save(ctx context.Context, id string, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return b.client.Set(ctx, redisKeyPrefix+id, data, b.ttl).Err()
}

// Delete removes a session.
func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, redisKeyPrefix+id).Err()
}

// Ping verifies Redis connectivity.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (b *RedisBackend) Close() {
	if b != nil && b.client != nil {
		_ = b.client.Close()
	}
}
