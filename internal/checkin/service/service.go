// Package service keeps the in-memory registry of open check-in sessions.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	checkinmetrics "ficha/internal/checkin/metrics"
	"ficha/internal/checkin/session"
	tenantmodels "ficha/internal/tenant/models"
	dErrors "ficha/pkg/domain-errors"
	"ficha/pkg/platform/sentinel"
)

// DefaultIdleTTL is how long an untouched session keeps its guest data.
const DefaultIdleTTL = 30 * time.Minute

// TenantLoader resolves a tenant config, falling back to defaults. It never fails.
type TenantLoader interface {
	LoadTenant(ctx context.Context, id string) *tenantmodels.TenantConfig
}

type Service struct {
	tenants    TenantLoader
	resolver   session.Resolver
	dispatcher session.Dispatcher
	logger     *slog.Logger
	metrics    *checkinmetrics.Metrics
	idleTTL    time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *checkinmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIdleTTL overrides the idle window when greater than zero.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(tenants TenantLoader, resolver session.Resolver, dispatcher session.Dispatcher, opts ...Option) *Service {
	s := &Service{
		tenants:    tenants,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     slog.Default(),
		idleTTL:    DefaultIdleTTL,
		now:        time.Now,
		sessions:   make(map[string]*session.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a session for tenantID. Unknown or malformed IDs still get a
// session, branded with whatever the tenant store falls back to.
func (s *Service) Open(ctx context.Context, tenantID string) (*session.Session, *tenantmodels.TenantConfig) {
	tenant := s.tenants.LoadTenant(ctx, tenantID)
	tenantID = tenant.ID
	sess := session.New(uuid.NewString(), tenant, s.resolver, s.dispatcher,
		session.WithLogger(s.logger),
		session.WithMetrics(s.metrics),
		session.WithClock(s.now),
		session.WithTenantReload(func(ctx context.Context) *tenantmodels.TenantConfig {
			return s.tenants.LoadTenant(ctx, tenantID)
		}),
	)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	s.metrics.SessionOpened()

	s.logger.InfoContext(ctx, "check-in session opened",
		"session_id", sess.ID(),
		"tenant_id", tenant.ID,
	)
	return sess, tenant
}

func (s *Service) Get(id string) (*session.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "session not found")
	}
	return sess, nil
}

// Close wipes and forgets a session.
func (s *Service) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "session not found")
	}

	sess.Close()
	s.metrics.SessionClosed(false)
	s.logger.InfoContext(ctx, "check-in session closed", "session_id", id)
	return nil
}

// EvictIdle closes every session untouched for longer than the idle TTL and
// returns how many it removed.
func (s *Service) EvictIdle(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("evict idle sessions: %w", err)
	}
	cutoff := s.now().Add(-s.idleTTL)

	var idle []*session.Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.LastActivity().Before(cutoff) {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.Close()
		s.metrics.SessionClosed(true)
	}
	return len(idle), nil
}

// Count returns the number of open sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown wipes every open session.
func (s *Service) Shutdown() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*session.Session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.Close()
		s.metrics.SessionClosed(false)
	}
}
