package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"ficha/internal/ratelimit/config"
	"ficha/internal/ratelimit/metrics"
	"ficha/internal/ratelimit/models"
	"ficha/internal/ratelimit/store/bucket"
	dErrors "ficha/pkg/domain-errors"
)

type failingBuckets struct{}

func (failingBuckets) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("redis down")
}

type ServiceSuite struct {
	suite.Suite
	metrics *metrics.Metrics
	svc     *Service
}

func (s *ServiceSuite) SetupTest() {
	s.metrics = metrics.New(prometheus.NewRegistry())
	svc, err := New(bucket.NewInMemoryBucketStore(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithConfig(config.New(2, 0)),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) decisions(class models.EndpointClass, decision string) float64 {
	return promtest.ToFloat64(s.metrics.Decisions.WithLabelValues(string(class), decision))
}

func (s *ServiceSuite) TestNewRequiresBuckets() {
	_, err := New(nil)
	s.Error(err)
}

func (s *ServiceSuite) TestLimitsEachIPSeparately() {
	ctx := context.Background()
	for range 2 {
		res, err := s.svc.CheckIP(ctx, "203.0.113.7", models.ClassSessionOpen)
		s.Require().NoError(err)
		s.True(res.Allowed)
	}

	res, err := s.svc.CheckIP(ctx, "203.0.113.7", models.ClassSessionOpen)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Positive(res.RetryAfter)

	res, err = s.svc.CheckIP(ctx, "198.51.100.4", models.ClassSessionOpen)
	s.Require().NoError(err)
	s.True(res.Allowed)

	s.Equal(3.0, s.decisions(models.ClassSessionOpen, metrics.DecisionAllowed))
	s.Equal(1.0, s.decisions(models.ClassSessionOpen, metrics.DecisionDenied))
}

func (s *ServiceSuite) TestClassesHaveSeparateBuckets() {
	ctx := context.Background()
	for range 2 {
		_, _ = s.svc.CheckIP(ctx, "203.0.113.7", models.ClassSessionOpen)
	}
	res, err := s.svc.CheckIP(ctx, "203.0.113.7", models.ClassBranding)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(59, res.Remaining)
}

func (s *ServiceSuite) TestUnconfiguredClassIsDenied() {
	res, err := s.svc.CheckIP(context.Background(), "203.0.113.7", models.EndpointClass("admin"))
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(60, res.RetryAfter)
}

func (s *ServiceSuite) TestStoreErrorsAreInternal() {
	svc, err := New(failingBuckets{}, WithMetrics(s.metrics), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)

	_, err = svc.CheckIP(context.Background(), "203.0.113.7", models.ClassBranding)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(1.0, s.decisions(models.ClassBranding, metrics.DecisionError))
}
