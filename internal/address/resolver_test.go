package address

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ficha/internal/address/mocks"
	"ficha/internal/address/models"
	"ficha/pkg/platform/circuit"
)

type ResolverSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	lookuper *mocks.MockLookuper
	cache    *mocks.MockCache
	metrics  *Metrics
	resolver *Resolver
}

var brasilia = models.Address{PostalCode: "70040-902", Street: "SBN Quadra 1", City: "Brasília", Region: "DF"}

func (s *ResolverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.lookuper = mocks.NewMockLookuper(s.ctrl)
	s.cache = mocks.NewMockCache(s.ctrl)
	s.metrics = NewMetrics(prometheus.NewRegistry())
	s.resolver = NewResolver(s.lookuper,
		WithCache(s.cache),
		WithMetrics(s.metrics),
		WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithTimeout(50*time.Millisecond),
	)
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) outcome(name string) float64 {
	return promtest.ToFloat64(s.metrics.Lookups.WithLabelValues(name))
}

func (s *ResolverSuite) TestNonEightDigitInputSkipsNetwork() {
	for _, in := range []string{"", "7004090", "700409021", "abc"} {
		_, ok := s.resolver.Resolve(context.Background(), in)
		s.False(ok, in)
	}
	s.Equal(4.0, s.outcome(OutcomeSkipped))
}

func (s *ResolverSuite) TestFormattedInputIsReducedToDigits() {
	s.cache.EXPECT().Get(gomock.Any(), "70040902").Return(models.Address{}, false, nil)
	s.lookuper.EXPECT().Lookup(gomock.Any(), "70040902").Return(brasilia, nil)
	s.cache.EXPECT().Set(gomock.Any(), "70040902", brasilia).Return(nil)

	addr, ok := s.resolver.Resolve(context.Background(), "70040-902")
	s.True(ok)
	s.Equal(brasilia, addr)
	s.Equal(1.0, s.outcome(OutcomeMiss))
}

func (s *ResolverSuite) TestCacheHitSkipsLookup() {
	s.cache.EXPECT().Get(gomock.Any(), "70040902").Return(brasilia, true, nil)

	addr, ok := s.resolver.Resolve(context.Background(), "70040902")
	s.True(ok)
	s.Equal("Brasília", addr.City)
	s.Equal(1.0, s.outcome(OutcomeHit))
}

func (s *ResolverSuite) TestCacheErrorsAreIgnored() {
	s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(models.Address{}, false, errors.New("redis down"))
	s.lookuper.EXPECT().Lookup(gomock.Any(), "70040902").Return(brasilia, nil)
	s.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	_, ok := s.resolver.Resolve(context.Background(), "70040902")
	s.True(ok)
}

func (s *ResolverSuite) TestNotFoundIsAbsentWithoutTrippingBreaker() {
	s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(models.Address{}, false, nil).Times(3)
	s.lookuper.EXPECT().Lookup(gomock.Any(), "99999999").
		Return(models.Address{}, newLookupError(ErrorNotFound, "postal code not found", nil)).Times(3)

	for range 3 {
		_, ok := s.resolver.Resolve(context.Background(), "99999999")
		s.False(ok)
	}
	s.False(s.resolver.breaker.IsOpen())
	s.Equal(3.0, s.outcome(OutcomeNotFound))
}

func (s *ResolverSuite) TestSlowLookupLosesTheRace() {
	release := make(chan struct{})
	done := make(chan struct{})
	s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(models.Address{}, false, nil)
	s.lookuper.EXPECT().Lookup(gomock.Any(), "70040902").DoAndReturn(
		func(ctx context.Context, _ string) (models.Address, error) {
			defer close(done)
			<-release
			s.NoError(ctx.Err(), "abandoned lookup is not cancelled")
			return brasilia, nil
		})

	start := time.Now()
	_, ok := s.resolver.Resolve(context.Background(), "70040902")
	elapsed := time.Since(start)

	s.False(ok)
	s.Less(elapsed, time.Second)
	s.Equal(1.0, s.outcome(OutcomeTimeout))

	close(release)
	<-done
}

func (s *ResolverSuite) TestSlowCacheSharesTheDeadline() {
	release := make(chan struct{})
	done := make(chan struct{})
	s.cache.EXPECT().Get(gomock.Any(), "70040902").DoAndReturn(
		func(context.Context, string) (models.Address, bool, error) {
			defer close(done)
			<-release
			return brasilia, true, nil
		})

	start := time.Now()
	_, ok := s.resolver.Resolve(context.Background(), "70040902")
	elapsed := time.Since(start)

	s.False(ok)
	s.Less(elapsed, time.Second)
	s.Equal(1.0, s.outcome(OutcomeTimeout))
	s.Zero(s.outcome(OutcomeHit))

	close(release)
	<-done
}

func (s *ResolverSuite) TestSlowCacheWriteSharesTheDeadline() {
	release := make(chan struct{})
	done := make(chan struct{})
	s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(models.Address{}, false, nil)
	s.lookuper.EXPECT().Lookup(gomock.Any(), "70040902").Return(brasilia, nil)
	s.cache.EXPECT().Set(gomock.Any(), "70040902", brasilia).DoAndReturn(
		func(context.Context, string, models.Address) error {
			defer close(done)
			<-release
			return nil
		})

	start := time.Now()
	_, ok := s.resolver.Resolve(context.Background(), "70040902")

	s.False(ok)
	s.Less(time.Since(start), time.Second)

	close(release)
	<-done
}

func (s *ResolverSuite) TestCallerCancellationDoesNotReachLookup() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(models.Address{}, false, nil)
	s.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.lookuper.EXPECT().Lookup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(lctx context.Context, _ string) (models.Address, error) {
			cancel()
			s.NoError(lctx.Err())
			return brasilia, nil
		})

	_, ok := s.resolver.Resolve(ctx, "70040902")
	s.True(ok)
}

func (s *ResolverSuite) TestBreakerOpensAndServesCacheFirst() {
	s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(models.Address{}, false, nil).Times(2)
	s.lookuper.EXPECT().Lookup(gomock.Any(), gomock.Any()).
		Return(models.Address{}, newLookupError(ErrorProviderOutage, "down", nil)).Times(2)

	for range 2 {
		_, ok := s.resolver.Resolve(context.Background(), "70040902")
		s.False(ok)
	}
	s.True(s.resolver.breaker.IsOpen())
	s.Equal(1.0, promtest.ToFloat64(s.metrics.BreakerOpen))

	// Open: cached data answers without a lookup.
	s.cache.EXPECT().Get(gomock.Any(), "01001000").Return(brasilia, true, nil)
	_, ok := s.resolver.Resolve(context.Background(), "01001000")
	s.True(ok)

	// Open with no cache: the lookup still runs and a success closes the circuit.
	s.cache.EXPECT().Get(gomock.Any(), "70040902").Return(models.Address{}, false, nil)
	s.lookuper.EXPECT().Lookup(gomock.Any(), "70040902").Return(brasilia, nil)
	s.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	_, ok = s.resolver.Resolve(context.Background(), "70040902")
	s.True(ok)
	s.False(s.resolver.breaker.IsOpen())
}

func TestResolverWithoutCacheOrMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookuper := mocks.NewMockLookuper(ctrl)
	lookuper.EXPECT().Lookup(gomock.Any(), "70040902").Return(brasilia, nil)

	addr, ok := NewResolver(lookuper).Resolve(context.Background(), "70040902")
	assert.True(t, ok)
	assert.Equal(t, brasilia, addr)
	assert.Equal(t, LookupTimeout, 2*time.Second)
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	r := NewResolver(nil, WithTimeout(0))
	assert.Equal(t, LookupTimeout, r.timeout)

	r = NewResolver(nil, WithTimeout(-time.Second))
	assert.Equal(t, LookupTimeout, r.timeout)

	r = NewResolver(nil, WithTimeout(300*time.Millisecond))
	assert.Equal(t, 300*time.Millisecond, r.timeout)
}
