// Package session holds one guest's in-progress check-in form. Nothing in a
// session is persisted; submit and close both wipe the guest entry.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	addressmodels "ficha/internal/address/models"
	checkinmetrics "ficha/internal/checkin/metrics"
	"ficha/internal/checkin/models"
	"ficha/internal/checkin/payload"
	"ficha/internal/license"
	"ficha/internal/mask"
	tenantmodels "ficha/internal/tenant/models"
	dErrors "ficha/pkg/domain-errors"
	"ficha/pkg/validation"
)

//go:generate mockgen -source=session.go -destination=mocks/session_mock.go -package=mocks

// Resolver fills in an address from a postal code.
type Resolver interface {
	Resolve(ctx context.Context, postalCode string) (addressmodels.Address, bool)
}

// Dispatcher hands a finished check-in to the messaging channel. Failures are
// not reported back; the form resets regardless.
type Dispatcher interface {
	Dispatch(ctx context.Context, d models.Delivery)
}

// ErrTrialExpired blocks submission once the tenant's trial has run out.
var ErrTrialExpired = dErrors.New(dErrors.CodeTrialExpired, "trial expired: license required to deliver check-ins")

const (
	minNationalIDLen = 14 // ###.###.###-##
	minBirthDateLen  = 10 // DD/MM/YYYY
	minPostalCodeLen = 9  // #####-###
	minPhoneLen      = 14 // (##) ####-####
)

type Session struct {
	id         string
	tenant     *tenantmodels.TenantConfig
	resolver   Resolver
	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *checkinmetrics.Metrics
	now        func() time.Time
	watcher    *license.Watcher
	reload     func(ctx context.Context) *tenantmodels.TenantConfig

	// License inputs the watcher reads; refreshed from reload on submit.
	licMu      sync.RWMutex
	licenseKey string
	createdAt  *time.Time

	mu           sync.Mutex
	entry        models.GuestEntry
	errors       models.FieldErrors
	acknowledged bool
	language     models.Language
	focus        models.Field
	lookingUp    bool
	lookupSeq    uint64
	lastActivity time.Time
	closed       bool

	lookups sync.WaitGroup
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithMetrics(m *checkinmetrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithClock pins the session and its trial watcher to a custom clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithTenantReload lets submit re-read the tenant's license, so a license
// activated after the session opened unblocks delivery. Branding and feature
// flags stay as they were when the session opened.
func WithTenantReload(reload func(ctx context.Context) *tenantmodels.TenantConfig) Option {
	return func(s *Session) {
		s.reload = reload
	}
}

// New starts a session and its trial watcher against a snapshot of tenant.
func New(id string, tenant *tenantmodels.TenantConfig, resolver Resolver, dispatcher Dispatcher, opts ...Option) *Session {
	s := &Session{
		id:         id,
		tenant:     tenant.Clone(),
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     slog.Default(),
		now:        time.Now,
		errors:     models.FieldErrors{},
		language:   models.LanguagePT,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastActivity = s.now()
	s.licenseKey = s.tenant.LicenseKey
	s.createdAt = s.tenant.CreatedAt
	s.watcher = license.Watch(s.licenseInputs, license.WithClock(s.now))
	go s.logTrialChanges()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) licenseInputs() (string, *time.Time) {
	s.licMu.RLock()
	defer s.licMu.RUnlock()
	return s.licenseKey, s.createdAt
}

// refreshLicense pulls the current license inputs for this session's tenant.
func (s *Session) refreshLicense(ctx context.Context) {
	if s.reload == nil {
		return
	}
	cfg := s.reload(ctx)
	if cfg == nil || cfg.ID != s.tenant.ID {
		return
	}
	s.licMu.Lock()
	s.licenseKey = cfg.LicenseKey
	if cfg.CreatedAt != nil {
		at := *cfg.CreatedAt
		s.createdAt = &at
	}
	s.licMu.Unlock()
}

func (s *Session) TenantID() string { return s.tenant.ID }

func (s *Session) logTrialChanges() {
	for state := range s.watcher.Changes() {
		s.logger.Info("trial state changed",
			"session_id", s.id,
			"tenant_id", s.tenant.ID,
			"state", state.Phase.String(),
		)
	}
}

// OnFieldChange applies one keystroke-level edit. Masked fields are normalized,
// and a complete postal code starts an address lookup in the background.
func (s *Session) OnFieldChange(ctx context.Context, field models.Field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return dErrors.New(dErrors.CodeNotFound, "session closed")
	}

	e := &s.entry
	switch field {
	case models.FieldFullName:
		e.FullName = raw
	case models.FieldIsForeign:
		v, err := parseBool(raw)
		if err != nil {
			return err
		}
		e.IsForeign = v
	case models.FieldPassportCountry:
		e.PassportCountry = raw
	case models.FieldPassportID:
		e.PassportID = raw
	case models.FieldNationalID:
		e.NationalID = mask.NationalID(raw)
	case models.FieldBirthDate:
		e.BirthDate = mask.Date(raw)
	case models.FieldStreet:
		e.Street = raw
	case models.FieldNumber:
		e.Number = raw
	case models.FieldPostalCode:
		e.PostalCode = mask.PostalCode(raw)
	case models.FieldCity:
		e.City = raw
	case models.FieldRegion:
		e.Region = raw
	case models.FieldEmail:
		e.Email = raw
	case models.FieldPhone:
		e.Phone = mask.Phone(raw)
	case models.FieldRoomNumber:
		e.RoomNumber = raw
	case models.FieldHasVehicle:
		v, err := parseBool(raw)
		if err != nil {
			return err
		}
		e.HasVehicle = v && s.tenant.Features.GarageEnabled
	case models.FieldVehicleModel:
		e.VehicleModel = raw
	case models.FieldVehicleColor:
		e.VehicleColor = raw
	case models.FieldVehiclePlate:
		e.VehiclePlate = raw
	case models.FieldExitTime:
		e.ExitTime = raw
	default:
		return dErrors.New(dErrors.CodeBadRequest, "unknown field "+string(field))
	}

	delete(s.errors, field)
	s.lastActivity = s.now()

	if field == models.FieldPostalCode && len(mask.Digits(e.PostalCode)) == mask.PostalCodeDigits {
		s.startLookupLocked(ctx, e.PostalCode)
	}
	return nil
}

func (s *Session) startLookupLocked(ctx context.Context, postalCode string) {
	s.lookupSeq++
	seq := s.lookupSeq
	s.lookingUp = true
	s.lookups.Add(1)

	go func(ctx context.Context) {
		defer s.lookups.Done()
		addr, ok := s.resolver.Resolve(ctx, postalCode)
		s.applyLookup(seq, postalCode, addr, ok)
	}(context.WithoutCancel(ctx))
}

// applyLookup lands a settled lookup. Results for a postal code the guest has
// since changed are dropped.
func (s *Session) applyLookup(seq uint64, postalCode string, addr addressmodels.Address, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq == s.lookupSeq {
		s.lookingUp = false
	}
	if s.closed {
		return
	}
	if !ok {
		s.metrics.IncAutofill(checkinmetrics.AutofillAbsent)
		return
	}
	if s.entry.PostalCode != postalCode {
		s.metrics.IncAutofill(checkinmetrics.AutofillStale)
		return
	}

	s.entry.Street = addr.Street
	s.entry.City = addr.City
	s.entry.Region = addr.Region
	for _, f := range []models.Field{models.FieldStreet, models.FieldCity, models.FieldRegion, models.FieldPostalCode} {
		delete(s.errors, f)
	}
	s.focus = models.FieldNumber
	s.metrics.IncAutofill(checkinmetrics.AutofillApplied)
}

// WaitForLookups blocks until every in-flight address lookup has settled.
func (s *Session) WaitForLookups() {
	s.lookups.Wait()
}

// Validate recomputes and stores the field errors, returning a copy.
func (s *Session) Validate() models.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = s.validateLocked()
	return s.errors.Clone()
}

func (s *Session) validateLocked() models.FieldErrors {
	e := s.entry
	errs := models.FieldErrors{}
	check := func(failed bool, f models.Field) {
		if failed {
			errs[f] = models.Message(s.language, f)
		}
	}
	blank := func(v string) bool { return strings.TrimSpace(v) == "" }

	check(blank(e.FullName), models.FieldFullName)
	if e.IsForeign {
		check(blank(e.PassportCountry), models.FieldPassportCountry)
		check(blank(e.PassportID), models.FieldPassportID)
	} else {
		check(len(e.NationalID) < minNationalIDLen, models.FieldNationalID)
		check(len(e.BirthDate) < minBirthDateLen, models.FieldBirthDate)
	}
	check(blank(e.Street), models.FieldStreet)
	check(blank(e.Number), models.FieldNumber)
	check(len(e.PostalCode) < minPostalCodeLen, models.FieldPostalCode)
	check(blank(e.City), models.FieldCity)
	check(blank(e.Region), models.FieldRegion)
	check(!validation.IsEmail(strings.TrimSpace(e.Email)), models.FieldEmail)
	check(len(e.Phone) < minPhoneLen, models.FieldPhone)
	if e.HasVehicle {
		check(blank(e.VehicleModel), models.FieldVehicleModel)
		check(blank(e.VehicleColor), models.FieldVehicleColor)
	}
	return errs
}

func (s *Session) SetAcknowledged(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acknowledged = v
	s.lastActivity = s.now()
}

// SetLanguage is only available to tenants with multi-language enabled.
func (s *Session) SetLanguage(raw string) error {
	lang, ok := models.ParseLanguage(raw)
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "language must be one of PT, EN, ES")
	}
	if !s.tenant.Features.MultiLanguageEnabled && lang != models.LanguagePT {
		return dErrors.New(dErrors.CodeForbidden, "language selection is disabled for this hotel")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
	s.lastActivity = s.now()
	return nil
}

// Submit delivers the check-in when the form is valid and acknowledged. An
// incomplete form yields Submitted=false with the current errors. After a
// delivery the guest entry, errors and acknowledgement are wiped.
func (s *Session) Submit(ctx context.Context) (*models.SubmitResult, error) {
	s.refreshLicense(ctx)
	if !s.watcher.Refresh().AllowsSubmit() {
		s.metrics.IncSubmission(checkinmetrics.SubmitTrialExpired)
		return nil, ErrTrialExpired
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeNotFound, "session closed")
	}
	s.lastActivity = s.now()
	s.errors = s.validateLocked()
	if len(s.errors) > 0 || !s.acknowledged {
		result := &models.SubmitResult{
			Errors:                s.errors.Clone(),
			AcknowledgementNeeded: !s.acknowledged,
		}
		s.mu.Unlock()
		s.metrics.IncSubmission(checkinmetrics.SubmitIncomplete)
		return result, nil
	}

	text := payload.Generate(s.entry, payload.Branding{
		Subtitle:      s.tenant.Subtitle,
		MultiLanguage: s.tenant.Features.MultiLanguageEnabled,
		Language:      s.language,
	})
	link := payload.DeepLink(s.tenant.ContactHandle, text)
	s.resetLocked()
	s.mu.Unlock()

	if s.tenant.ContactHandle == "" {
		s.logger.WarnContext(ctx, "tenant has no contact handle, deep link has no recipient",
			"session_id", s.id,
			"tenant_id", s.tenant.ID,
		)
	}

	s.dispatcher.Dispatch(ctx, models.Delivery{
		TenantID:      s.tenant.ID,
		ContactHandle: s.tenant.ContactHandle,
		DeepLink:      link,
	})
	s.metrics.IncSubmission(checkinmetrics.SubmitDelivered)

	return &models.SubmitResult{Submitted: true, DeepLink: link, Payload: text}, nil
}

// resetLocked wipes guest data and orphans any in-flight lookup.
func (s *Session) resetLocked() {
	s.entry = models.GuestEntry{}
	s.errors = models.FieldErrors{}
	s.acknowledged = false
	s.focus = ""
	s.lookingUp = false
	s.lookupSeq++
}

// View returns a copy of the session for rendering.
func (s *Session) View() models.SessionView {
	trial := s.watcher.State()

	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionView{
		ID:               s.id,
		TenantID:         s.tenant.ID,
		Entry:            s.entry,
		Errors:           s.errors.Clone(),
		Acknowledged:     s.acknowledged,
		Language:         s.language,
		Focus:            s.focus,
		LookingUpAddress: s.lookingUp,
		TrialState:       trial.Phase.String(),
		TrialCountdown:   trial.Countdown(),
		LastActivity:     s.lastActivity,
	}
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Close wipes the guest entry and stops the trial watcher. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.resetLocked()
	s.mu.Unlock()

	s.watcher.Stop()
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "sim", "1", "on":
		return true, nil
	case "false", "no", "não", "nao", "0", "off", "":
		return false, nil
	default:
		return false, dErrors.New(dErrors.CodeValidation, "expected a yes/no value")
	}
}
