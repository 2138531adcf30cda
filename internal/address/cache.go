package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ficha/internal/address/models"
)

const cacheKeyPrefix = "ficha:address:"

// RedisCache keeps resolved postal codes. Only provider data is stored, never
// anything the guest typed beyond the postal code itself.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get reports found=false with a nil error on a miss.
func (c *RedisCache) Get(ctx context.Context, cep string) (models.Address, bool, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+cep).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Address{}, false, nil
	}
	if err != nil {
		return models.Address{}, false, fmt.Errorf("get cached address: %w", err)
	}
	var addr models.Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return models.Address{}, false, fmt.Errorf("decode cached address: %w", err)
	}
	return addr, true, nil
}

func (c *RedisCache) Set(ctx context.Context, cep string, addr models.Address) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("encode address: %w", err)
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+cep, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache address: %w", err)
	}
	return nil
}
