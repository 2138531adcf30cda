// Package service enforces per-IP request limits on the public routes.
//
// Usage:
//
//	svc, _ := service.New(bucket.NewInMemoryBucketStore())
//	result, _ := svc.CheckIP(ctx, clientIP, models.ClassSessionOpen)
//	if !result.Allowed {
//	    // 429 Too Many Requests
//	}
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ficha/internal/ratelimit/config"
	"ficha/internal/ratelimit/metrics"
	"ficha/internal/ratelimit/models"
	dErrors "ficha/pkg/domain-errors"
	"ficha/pkg/platform/privacy"
	"ficha/pkg/requestcontext"
)

// BucketStore checks rate limits using sliding window counters.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Service is safe for concurrent use by HTTP middleware.
type Service struct {
	buckets BucketStore
	logger  *slog.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}
	svc := &Service{
		buckets: buckets,
		logger:  slog.Default(),
		config:  config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP counts one request from ip against the limit for class. A class
// with no configured limit is denied.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	limit, window, ok := s.config.GetIPLimit(class)
	if !ok {
		s.logger.ErrorContext(ctx, "rate limit config missing",
			"endpoint_class", class,
			"ip_prefix", privacy.AnonymizeIP(ip),
		)
		s.metrics.Record(class, metrics.DecisionDenied)
		return &models.RateLimitResult{
			Allowed:    false,
			ResetAt:    requestcontext.Now(ctx),
			RetryAfter: 60,
		}, nil
	}

	key := models.NewRateLimitKey(models.KeyPrefixIP, ip, class)
	result, err := s.buckets.Allow(ctx, key.String(), limit, window)
	if err != nil {
		s.metrics.Record(class, metrics.DecisionError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if !result.Allowed {
		s.metrics.Record(class, metrics.DecisionDenied)
		s.logger.WarnContext(ctx, "ip rate limit exceeded",
			"ip_prefix", privacy.AnonymizeIP(ip),
			"endpoint_class", class,
			"limit", limit,
			"window_seconds", int(window.Seconds()),
		)
		return result, nil
	}
	s.metrics.Record(class, metrics.DecisionAllowed)
	return result, nil
}
