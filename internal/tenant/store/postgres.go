package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ficha/internal/tenant/models"
	"ficha/pkg/platform/sentinel"
)

// PostgresStore keeps each tenant as a JSONB document in tenant_configs.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.TenantConfig, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT config FROM tenant_configs WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant %s: %w", id, err)
	}
	var cfg models.TenantConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode tenant %s: %w", id, err)
	}
	return &cfg, nil
}

func (s *PostgresStore) Put(ctx context.Context, cfg *models.TenantConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode tenant %s: %w", cfg.ID, err)
	}
	query := `
		INSERT INTO tenant_configs (id, config, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, cfg.ID, raw); err != nil {
		return fmt.Errorf("upsert tenant %s: %w", cfg.ID, err)
	}
	return nil
}
