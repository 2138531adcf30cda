package config

import (
	"time"

	"ficha/internal/ratelimit/models"
)

// Config holds the per-IP limits for each endpoint class.
type Config struct {
	IPLimits map[models.EndpointClass]Limit
}

// Limit defines rate limit parameters for an endpoint class.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// DefaultConfig returns the limits used when the environment sets none.
func DefaultConfig() *Config {
	return &Config{
		IPLimits: map[models.EndpointClass]Limit{
			models.ClassSessionOpen: {RequestsPerWindow: 20, Window: time.Minute},
			models.ClassBranding:    {RequestsPerWindow: 60, Window: time.Minute},
		},
	}
}

// New builds a config from per-minute request counts. Non-positive values
// keep the default for that class.
func New(sessionOpenPerMinute, brandingPerMinute int) *Config {
	cfg := DefaultConfig()
	if sessionOpenPerMinute > 0 {
		cfg.IPLimits[models.ClassSessionOpen] = Limit{RequestsPerWindow: sessionOpenPerMinute, Window: time.Minute}
	}
	if brandingPerMinute > 0 {
		cfg.IPLimits[models.ClassBranding] = Limit{RequestsPerWindow: brandingPerMinute, Window: time.Minute}
	}
	return cfg
}

// GetIPLimit returns the limit for class, or false when none is configured.
func (c *Config) GetIPLimit(class models.EndpointClass) (int, time.Duration, bool) {
	limit, ok := c.IPLimits[class]
	if !ok {
		return 0, 0, false
	}
	return limit.RequestsPerWindow, limit.Window, true
}
