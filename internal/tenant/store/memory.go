// Package store persists tenant configuration as whole records keyed by id.
// Writes are last-writer-wins in every backend.
package store

import (
	"context"
	"sync"

	"ficha/internal/tenant/models"
	"ficha/pkg/platform/sentinel"
)

// InMemory keeps tenant records for development and tests.
type InMemory struct {
	mu      sync.RWMutex
	tenants map[string]*models.TenantConfig
}

func NewInMemory() *InMemory {
	return &InMemory{tenants: make(map[string]*models.TenantConfig)}
}

func (s *InMemory) Get(_ context.Context, id string) (*models.TenantConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.tenants[id]; ok {
		return cfg.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Put(_ context.Context, cfg *models.TenantConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[cfg.ID] = cfg.Clone()
	return nil
}
