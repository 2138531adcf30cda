package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ficha/internal/mask"
	tenantmetrics "ficha/internal/tenant/metrics"
	"ficha/internal/tenant/models"
	dErrors "ficha/pkg/domain-errors"
	"ficha/pkg/platform/sentinel"
	"ficha/pkg/requestcontext"
	"ficha/pkg/validation"
)

type Store interface {
	Get(ctx context.Context, id string) (*models.TenantConfig, error)
	Put(ctx context.Context, cfg *models.TenantConfig) error
}

// Service resolves, migrates and administers tenant configuration.
type Service struct {
	store          Store
	logger         *slog.Logger
	metrics        *tenantmetrics.Metrics
	themeListeners []func(models.ThemeChange)
}

var errInvalidID = dErrors.New(dErrors.CodeValidation, "id is not a valid tenant identifier")

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadTenant always yields a usable config. Unseen ids are provisioned as
// given, stored records are migrated, and storage trouble degrades to seeds
// rather than an error. Only an id that cannot name a tenant gets the
// unpersisted default tenant.
func (s *Service) LoadTenant(ctx context.Context, id string) *models.TenantConfig {
	id = strings.TrimSpace(id)
	now := requestcontext.Now(ctx)
	if !models.ValidID(id) {
		s.logger.WarnContext(ctx, "unusable tenant id, using default", "id_length", len(id))
		cfg := models.Default()
		cfg.CreatedAt = &now
		return cfg
	}

	cfg, err := s.store.Get(ctx, id)
	if err == nil {
		if kinds := migrate(cfg, now); len(kinds) > 0 {
			for _, k := range kinds {
				s.metrics.IncMigration(k)
			}
			s.put(ctx, cfg, "migrate")
			s.logger.InfoContext(ctx, "tenant record migrated", "tenant_id", id, "migrations", kinds)
		}
		return cfg
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncStorageFailure("get")
		s.logger.WarnContext(ctx, "tenant read failed, treating as not found", "tenant_id", id, "error", err)
	}

	cfg, seeded := models.Seed(id)
	source := tenantmetrics.SourceSeed
	if !seeded {
		cfg = models.Template(id)
		source = tenantmetrics.SourceTemplate
	}
	cfg.CreatedAt = &now
	s.put(ctx, cfg, "provision")
	s.metrics.IncProvisioned(source)
	s.logger.InfoContext(ctx, "tenant provisioned", "tenant_id", id, "source", source)
	return cfg
}

// migrate upgrades legacy records in place and reports which migrations ran.
func migrate(cfg *models.TenantConfig, now time.Time) []string {
	var kinds []string
	switch accent := cfg.EffectiveAccent(); {
	case accent == "" || strings.EqualFold(accent, models.DeprecatedAccent):
		cfg.AccentColor = models.AccentGold
		cfg.ThemeColor = models.AccentGold
		kinds = append(kinds, tenantmetrics.MigrationAccent)
	case cfg.AccentColor == "" || cfg.ThemeColor != cfg.AccentColor:
		cfg.AccentColor = accent
		cfg.ThemeColor = accent
		kinds = append(kinds, tenantmetrics.MigrationAccent)
	}
	if cfg.CreatedAt == nil {
		at := now
		cfg.CreatedAt = &at
		kinds = append(kinds, tenantmetrics.MigrationCreatedAt)
	}
	return kinds
}

func (s *Service) put(ctx context.Context, cfg *models.TenantConfig, op string) {
	if err := s.store.Put(ctx, cfg); err != nil {
		s.metrics.IncStorageFailure(op)
		s.logger.ErrorContext(ctx, "tenant write failed", "tenant_id", cfg.ID, "op", op, "error", err)
	}
}

// UpdateTenant replaces the stored record. The creation time of an existing
// record survives an update that omits it.
func (s *Service) UpdateTenant(ctx context.Context, cfg *models.TenantConfig) (*models.TenantConfig, models.ThemeChange, error) {
	if cfg == nil {
		return nil, models.ThemeChange{}, dErrors.New(dErrors.CodeBadRequest, "tenant config is required")
	}
	next := cfg.Clone()
	next.ID = strings.TrimSpace(next.ID)
	if !models.ValidID(next.ID) {
		return nil, models.ThemeChange{}, errInvalidID
	}
	if next.AccentColor == "" {
		next.AccentColor = models.AccentGold
	}
	if !validation.IsHexColor(next.AccentColor) {
		return nil, models.ThemeChange{}, dErrors.New(dErrors.CodeValidation, "accent_color must be a hex color")
	}
	next.ThemeColor = next.AccentColor
	next.ContactHandle = mask.Digits(next.ContactHandle)
	next.LicenseKey = strings.TrimSpace(next.LicenseKey)

	if next.CreatedAt == nil {
		if existing, err := s.store.Get(ctx, next.ID); err == nil && existing.CreatedAt != nil {
			next.CreatedAt = existing.CreatedAt
		} else {
			now := requestcontext.Now(ctx)
			next.CreatedAt = &now
		}
	}

	if err := s.store.Put(ctx, next); err != nil {
		s.metrics.IncStorageFailure("update")
		return nil, models.ThemeChange{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save tenant")
	}

	change := models.ThemeChange{TenantID: next.ID, AccentColor: next.AccentColor}
	s.emit(change)
	s.logger.InfoContext(ctx, "tenant updated", "tenant_id", next.ID, "request_id", requestcontext.RequestID(ctx))
	return next, change, nil
}

// PreviewTheme announces a color without persisting it.
func (s *Service) PreviewTheme(id, color string) (models.ThemeChange, error) {
	if !models.ValidID(id) {
		return models.ThemeChange{}, errInvalidID
	}
	if !validation.IsHexColor(color) {
		return models.ThemeChange{}, dErrors.New(dErrors.CodeValidation, "accent_color must be a hex color")
	}
	change := models.ThemeChange{TenantID: id, AccentColor: color, Preview: true}
	s.emit(change)
	return change, nil
}

// ActivateLicense stores a license key, which ends the trial for good.
func (s *Service) ActivateLicense(ctx context.Context, id, key string) (*models.TenantConfig, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "license_key is required")
	}
	if !models.ValidID(id) {
		return nil, errInvalidID
	}
	cfg := s.LoadTenant(ctx, id)
	cfg.LicenseKey = key
	if err := s.store.Put(ctx, cfg); err != nil {
		s.metrics.IncStorageFailure("license")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save license")
	}
	s.logger.InfoContext(ctx, "license activated", "tenant_id", id)
	return cfg, nil
}

func (s *Service) emit(change models.ThemeChange) {
	for _, fn := range s.themeListeners {
		fn(change)
	}
}
