package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionRegistry exposes eviction of idle form sessions.
type SessionRegistry interface {
	EvictIdle(ctx context.Context) (int, error)
}

// BucketPruner drops rate limit windows that no longer hold any request.
type BucketPruner interface {
	Prune(ctx context.Context) (int, error)
}

// CleanupResult summarizes one cleanup run.
type CleanupResult struct {
	EvictedSessions int
	PrunedBuckets   int
}

// CleanupService periodically wipes sessions nobody has touched for a while
// and, when configured, forgets idle rate limit windows.
type CleanupService struct {
	sessions SessionRegistry
	buckets  BucketPruner
	interval time.Duration
	logger   *slog.Logger
}

// CleanupOption configures CleanupService.
type CleanupOption func(*CleanupService)

// WithCleanupInterval overrides the cleanup interval when greater than zero.
func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(s *CleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithCleanupLogger overrides the logger used for cleanup errors.
func WithCleanupLogger(logger *slog.Logger) CleanupOption {
	return func(s *CleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBucketPruner adds rate limit window pruning to each run.
func WithBucketPruner(p BucketPruner) CleanupOption {
	return func(s *CleanupService) {
		s.buckets = p
	}
}

func New(sessions SessionRegistry, opts ...CleanupOption) (*CleanupService, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	svc := &CleanupService{
		sessions: sessions,
		interval: time.Minute,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs cleanup periodically until ctx is cancelled.
func (s *CleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "session cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single eviction pass.
func (s *CleanupService) RunOnce(ctx context.Context) (CleanupResult, error) {
	evicted, err := s.sessions.EvictIdle(ctx)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("evict idle sessions: %w", err)
	}
	if evicted > 0 {
		s.logger.InfoContext(ctx, "idle sessions evicted", "count", evicted)
	}
	result := CleanupResult{EvictedSessions: evicted}

	if s.buckets == nil {
		return result, nil
	}
	pruned, err := s.buckets.Prune(ctx)
	if err != nil {
		return result, fmt.Errorf("prune rate limit buckets: %w", err)
	}
	if pruned > 0 {
		s.logger.DebugContext(ctx, "rate limit buckets pruned", "count", pruned)
	}
	result.PrunedBuckets = pruned
	return result, nil
}
