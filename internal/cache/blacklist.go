// Package cache mirrors revoked refresh tokens into redis so that a refresh
// can be rejected without touching the database
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"protofolio/backend/config"
	"protofolio/backend/pkg/security"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "blacklist:"

type Blacklist struct {
	rdb *redis.Client
}

// NewBlacklist connects to redis. It returns nil when redis is not configured
// or unreachable, callers then fall back to the database alone.
func NewBlacklist(c *config.Redis) *Blacklist {
	if c.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		zap.L().Warn("Redis unreachable, token blacklist cache disabled", zap.String("addr", c.Addr), zap.Error(err))
		rdb.Close()
		return nil
	}

	return &Blacklist{rdb: rdb}
}

// Tokens are keyed by digest, raw refresh tokens never leave the process
func key(token string) string {
	return keyPrefix + security.DigestToken(token)
}

func (b *Blacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := b.rdb.Set(ctx, key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache revoked token, %w", err)
	}

	return nil
}

func (b *Blacklist) Contains(ctx context.Context, token string) (bool, error) {
	err := b.rdb.Get(ctx, key(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to query token cache, %w", err)
	}

	return true, nil
}

func (b *Blacklist) Close() error {
	return b.rdb.Close()
}
