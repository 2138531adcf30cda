package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ficha/internal/tenant/models"
	"ficha/pkg/platform/sentinel"
)

// HotelsKey is the single hash holding every tenant record, one field per id.
const HotelsKey = "hotels_db"

type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.TenantConfig, error) {
	raw, err := s.client.HGet(ctx, HotelsKey, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read tenant %s: %w", id, err)
	}
	var cfg models.TenantConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode tenant %s: %w", id, err)
	}
	return &cfg, nil
}

func (s *RedisStore) Put(ctx context.Context, cfg *models.TenantConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode tenant %s: %w", cfg.ID, err)
	}
	if err := s.client.HSet(ctx, HotelsKey, cfg.ID, raw).Err(); err != nil {
		return fmt.Errorf("write tenant %s: %w", cfg.ID, err)
	}
	return nil
}
