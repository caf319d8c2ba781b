package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (r RedisCache) Get(ctx context.Context, terminalID string) (*pricing.State, error) {
	data, err := r.client.Get(ctx, cacheKey(terminalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var state pricing.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal register failed: %w", err)
	}
	return &state, nil
}

func (r RedisCache) Set(ctx context.Context, terminalID string, state pricing.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal register failed: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(terminalID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, terminalID string) error {
	if err := r.client.Del(ctx, cacheKey(terminalID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(terminalID string) string {
	return fmt.Sprintf("pos:register:%s", terminalID)
}
