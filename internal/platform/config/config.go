package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string
	Environment       string
	AdminAPIToken     string
	DefaultTenantID   string
	AddressLookupURL  string
	LicenseContactURL string
	SessionIdleTTL    time.Duration
	TrustedProxies    []netip.Prefix
	Database          DatabaseConfig
	Redis             RedisConfig
	RateLimit         RateLimitConfig
}

// RateLimitConfig sets per-IP request budgets for the public routes.
type RateLimitConfig struct {
	SessionOpenPerMinute int
	BrandingPerMinute    int
}

// DatabaseConfig configures the optional Postgres tenant store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the optional Redis tenant store and address cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AddressCacheTTL bounds how long a resolved postal code is reused.
var AddressCacheTTL = 24 * time.Hour

// DefaultLicenseContactURL is where expired trials are sent to buy a license.
const DefaultLicenseContactURL = "https://wa.me/5561982062229?text=Quero%20ativar%20minha%20licen%C3%A7a%20vital%C3%ADcia%20do%20Ficha%20Cadastral"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:              envOr("FICHA_ADDR", ":8080"),
		Environment:       envOr("ENVIRONMENT", "development"),
		AdminAPIToken:     os.Getenv("ADMIN_API_TOKEN"),
		DefaultTenantID:   envOr("DEFAULT_TENANT_ID", "demo-hotel"),
		AddressLookupURL:  envOr("ADDRESS_LOOKUP_URL", "https://viacep.com.br"),
		LicenseContactURL: envOr("LICENSE_CONTACT_URL", DefaultLicenseContactURL),
		SessionIdleTTL:    durationOr("SESSION_IDLE_TTL", 30*time.Minute),
		TrustedProxies:    prefixes(os.Getenv("TRUSTED_PROXIES")),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    intOr("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    intOr("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: durationOr("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: intOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			SessionOpenPerMinute: intOr("RATE_LIMIT_SESSION_OPEN_PER_MINUTE", 20),
			BrandingPerMinute:    intOr("RATE_LIMIT_BRANDING_PER_MINUTE", 60),
		},
	}
}

// IsProduction reports whether the server runs with production defaults.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// prefixes parses a comma-separated CIDR list, skipping malformed entries.
func prefixes(raw string) []netip.Prefix {
	var out []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if p, err := netip.ParsePrefix(part); err == nil {
			out = append(out, p)
		}
	}
	return out
}
