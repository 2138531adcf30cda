package models

import (
	"regexp"
	"strings"
	"time"
)

const (
	// AccentGold is the house accent applied to every tenant without a custom color.
	AccentGold = "#D4AF37"
	// DeprecatedAccent was the old default; records still carrying it are migrated.
	DeprecatedAccent = "#10B981"

	DefaultTenantID = "alpha-plaza"
	DemoTenantID    = "demo-hotel"

	DefaultContactHandle = "5561982062229"
	defaultBackgroundURL = "https://static.vecteezy.com/ti/vetor-gratis/t2/8953048-abstract-elegant-gold-lines-diagonal-scene-on-black-background-template-premium-award-design-gratis-vetor.jpg"
)

type Features struct {
	MultiLanguageEnabled bool `json:"multi_language_enabled"`
	GarageEnabled        bool `json:"garage_enabled"`
}

// TenantConfig is a hotel's branding, feature flags and license data. It is
// the only record the system persists.
type TenantConfig struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Subtitle      string     `json:"subtitle"`
	ContactHandle string     `json:"contact_handle"`
	AccentColor   string     `json:"accent_color"`
	ThemeColor    string     `json:"theme_color,omitempty"`
	Features      Features   `json:"features"`
	FooterText    string     `json:"footer_text"`
	LicenseKey    string     `json:"license_key,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	BackgroundURL string     `json:"background_url,omitempty"`
	LogoURL       string     `json:"logo_url,omitempty"`
}

// Clone returns a deep copy so callers can't mutate a store's record.
func (c *TenantConfig) Clone() *TenantConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.CreatedAt != nil {
		at := *c.CreatedAt
		out.CreatedAt = &at
	}
	return &out
}

// EffectiveAccent prefers the current field and falls back to the legacy one.
func (c *TenantConfig) EffectiveAccent() string {
	if c.AccentColor != "" {
		return c.AccentColor
	}
	return c.ThemeColor
}

// ThemeChange announces a new accent color, either applied or only previewed.
type ThemeChange struct {
	TenantID    string `json:"tenant_id"`
	AccentColor string `json:"accent_color"`
	Preview     bool   `json:"preview"`
}

// Default is the hard-coded fallback tenant used when nothing else resolves.
func Default() *TenantConfig {
	return &TenantConfig{
		ID:            DefaultTenantID,
		Name:          "Ficha Cadastral",
		Subtitle:      "Alpha Plaza Hotel",
		ContactHandle: DefaultContactHandle,
		AccentColor:   AccentGold,
		ThemeColor:    AccentGold,
		Features:      Features{MultiLanguageEnabled: true, GarageEnabled: true},
		FooterText:    "© 2026 Alpha Plaza Hotel - Todos os direitos reservados",
		BackgroundURL: defaultBackgroundURL,
	}
}

// MaxIDLength bounds a tenant identifier.
const MaxIDLength = 64

// An identifier is a routing slug: it starts with a letter or digit and may
// carry dots, dashes and underscores. Case is preserved.
var idPattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N}._-]*$`)

// ValidID reports whether id can name a tenant. Surrounding whitespace is
// ignored.
func ValidID(id string) bool {
	id = strings.TrimSpace(id)
	return len(id) <= MaxIDLength && idPattern.MatchString(id)
}

// Seed returns the built-in record for a reserved id.
func Seed(id string) (*TenantConfig, bool) {
	switch id {
	case DefaultTenantID:
		return Default(), true
	case DemoTenantID:
		cfg := Default()
		cfg.ID = DemoTenantID
		cfg.Name = "Demo Hotel"
		cfg.Subtitle = "Demonstração do Sistema"
		return cfg, true
	default:
		return nil, false
	}
}

// Template auto-provisions an unseen id. It has no contact handle until an
// administrator sets one.
func Template(id string) *TenantConfig {
	cfg := Default()
	cfg.ID = id
	cfg.Name = "New Hotel Setup"
	cfg.Subtitle = "Hotel ID: " + id
	cfg.ContactHandle = ""
	return cfg
}
