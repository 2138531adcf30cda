package address

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ficha/internal/address/models"
	"ficha/internal/mask"
	"ficha/pkg/platform/circuit"
)

//go:generate mockgen -source=resolver.go -destination=mocks/resolver_mock.go -package=mocks

// LookupTimeout is how long a guest waits for auto-fill before typing the
// address by hand.
const LookupTimeout = 2 * time.Second

// Lookuper performs a single postal code lookup.
type Lookuper interface {
	Lookup(ctx context.Context, cep string) (models.Address, error)
}

// Cache stores resolved addresses by postal code digits.
type Cache interface {
	Get(ctx context.Context, cep string) (models.Address, bool, error)
	Set(ctx context.Context, cep string, addr models.Address) error
}

// Resolver turns a postal code into an address or reports absence. It never
// returns an error: every failure means "let the guest type it".
type Resolver struct {
	lookuper Lookuper
	cache    Cache
	breaker  *circuit.Breaker
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

type Option func(*Resolver)

func WithCache(cache Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Resolver) {
		r.breaker = b
	}
}

// WithTimeout shortens or extends the lookup deadline; non-positive values
// keep LookupTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

func NewResolver(lookuper Lookuper, opts ...Option) *Resolver {
	r := &Resolver{
		lookuper: lookuper,
		breaker:  circuit.New("postal_lookup"),
		timeout:  LookupTimeout,
		logger:   slog.Default(),
		tracer:   otel.Tracer("ficha/address"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type lookupResult struct {
	addr   models.Address
	err    error
	cached bool
}

// Resolve returns the address for postalCode, or false when the input is not
// exactly 8 digits, the provider has no record, or nothing arrives within
// LookupTimeout. The cache read and write share that deadline with the lookup.
func (r *Resolver) Resolve(ctx context.Context, postalCode string) (models.Address, bool) {
	cep := mask.Digits(postalCode)
	if len(cep) != mask.PostalCodeDigits {
		r.metrics.observe(OutcomeSkipped)
		return models.Address{}, false
	}

	ctx, span := r.tracer.Start(ctx, "address.resolve",
		trace.WithAttributes(attribute.String("postal_code.region", cep[:5])))
	defer span.End()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	// The work outlives a timeout; it must not see the caller's cancellation
	// and its late result lands in the buffered channel unread.
	results := make(chan lookupResult, 1)
	go func(ctx context.Context) {
		results <- r.fetch(ctx, cep)
	}(context.WithoutCancel(ctx))

	select {
	case res := <-results:
		if res.cached {
			if r.breaker.IsOpen() {
				r.logger.WarnContext(ctx, "circuit open, using cached address", "circuit", r.breaker.Name())
			}
			r.metrics.observe(OutcomeHit)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return res.addr, true
		}
		return r.settle(ctx, span, res)
	case <-timer.C:
		r.recordFailure(ctx, newLookupError(ErrorTimeout, "lookup exceeded deadline", nil))
		r.metrics.observe(OutcomeTimeout)
		span.SetStatus(codes.Error, "timeout")
		r.logger.DebugContext(ctx, "address lookup timed out", "timeout", r.timeout.String())
		return models.Address{}, false
	}
}

// fetch reads the cache, falls back to the provider and remembers a found
// address before reporting it.
func (r *Resolver) fetch(ctx context.Context, cep string) lookupResult {
	if addr, ok := r.fromCache(ctx, cep); ok {
		return lookupResult{addr: addr, cached: true}
	}

	start := time.Now()
	addr, err := r.lookuper.Lookup(ctx, cep)
	r.metrics.observeLatency(time.Since(start).Seconds())
	if err == nil && r.cache != nil {
		if cerr := r.cache.Set(ctx, cep, addr); cerr != nil {
			r.logger.DebugContext(ctx, "address cache write failed", "error", cerr)
		}
	}
	return lookupResult{addr: addr, err: err}
}

func (r *Resolver) settle(ctx context.Context, span trace.Span, res lookupResult) (models.Address, bool) {
	if res.err != nil {
		category := CategoryOf(res.err)
		if category == ErrorNotFound {
			// The provider answered; absence is not an outage.
			r.recordSuccess(ctx)
			r.metrics.observe(OutcomeNotFound)
			return models.Address{}, false
		}
		r.recordFailure(ctx, res.err)
		r.metrics.observe(OutcomeError)
		span.RecordError(res.err)
		span.SetStatus(codes.Error, string(category))
		r.logger.WarnContext(ctx, "address lookup failed", "category", string(category), "error", res.err)
		return models.Address{}, false
	}

	r.recordSuccess(ctx)
	r.metrics.observe(OutcomeMiss)
	return res.addr, true
}

func (r *Resolver) fromCache(ctx context.Context, cep string) (models.Address, bool) {
	if r.cache == nil {
		return models.Address{}, false
	}
	addr, found, err := r.cache.Get(ctx, cep)
	if err != nil {
		r.logger.DebugContext(ctx, "address cache read failed", "error", err)
		return models.Address{}, false
	}
	return addr, found
}

func (r *Resolver) recordFailure(ctx context.Context, err error) {
	_, change := r.breaker.RecordFailure()
	if change.Opened {
		r.metrics.setBreakerOpen(true)
		r.logger.ErrorContext(ctx, "circuit breaker opened", "circuit", r.breaker.Name(), "error", err)
	}
}

func (r *Resolver) recordSuccess(ctx context.Context) {
	_, change := r.breaker.RecordSuccess()
	if change.Closed {
		r.metrics.setBreakerOpen(false)
		r.logger.InfoContext(ctx, "circuit breaker closed", "circuit", r.breaker.Name())
	}
}
