package service

import (
	"log/slog"

	tenantmetrics "ficha/internal/tenant/metrics"
	"ficha/internal/tenant/models"
)

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithThemeListener subscribes a renderer to applied and previewed accent changes.
func WithThemeListener(fn func(models.ThemeChange)) Option {
	return func(s *Service) {
		if fn != nil {
			s.themeListeners = append(s.themeListeners, fn)
		}
	}
}
