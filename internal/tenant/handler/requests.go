package handler

import (
	"strings"

	"ficha/internal/tenant/models"
	s "ficha/pkg/string"
	"ficha/pkg/validation"
)

// UpdateTenantRequest is the full record an administrator saves. The id comes
// from the path.
type UpdateTenantRequest struct {
	Name                 string `json:"name" validate:"notblank,max=120"`
	Subtitle             string `json:"subtitle" validate:"max=120"`
	ContactHandle        string `json:"contact_handle" validate:"max=32"`
	AccentColor          string `json:"accent_color" validate:"omitempty,hexcolor"`
	MultiLanguageEnabled bool   `json:"multi_language_enabled"`
	GarageEnabled        bool   `json:"garage_enabled"`
	FooterText           string `json:"footer_text" validate:"max=240"`
	LicenseKey           string `json:"license_key" validate:"max=128"`
	BackgroundURL        string `json:"background_url" validate:"omitempty,url"`
	LogoURL              string `json:"logo_url" validate:"omitempty,url"`
}

func (r *UpdateTenantRequest) Normalize() {
	s.TrimStrings(&r.Name, &r.Subtitle, &r.ContactHandle, &r.AccentColor,
		&r.FooterText, &r.LicenseKey, &r.BackgroundURL, &r.LogoURL)
	r.AccentColor = strings.ToUpper(r.AccentColor)
}

func (r *UpdateTenantRequest) Validate() error {
	return validation.Validate(r)
}

func (r *UpdateTenantRequest) toModel(id string) *models.TenantConfig {
	return &models.TenantConfig{
		ID:            id,
		Name:          r.Name,
		Subtitle:      r.Subtitle,
		ContactHandle: r.ContactHandle,
		AccentColor:   r.AccentColor,
		Features: models.Features{
			MultiLanguageEnabled: r.MultiLanguageEnabled,
			GarageEnabled:        r.GarageEnabled,
		},
		FooterText:    r.FooterText,
		LicenseKey:    r.LicenseKey,
		BackgroundURL: r.BackgroundURL,
		LogoURL:       r.LogoURL,
	}
}

type PreviewThemeRequest struct {
	AccentColor string `json:"accent_color" validate:"required,hexcolor"`
}

func (r *PreviewThemeRequest) Normalize() {
	r.AccentColor = strings.ToUpper(strings.TrimSpace(r.AccentColor))
}

func (r *PreviewThemeRequest) Validate() error {
	return validation.Validate(r)
}

type ActivateLicenseRequest struct {
	LicenseKey string `json:"license_key" validate:"notblank,max=128"`
}

func (r *ActivateLicenseRequest) Normalize() {
	r.LicenseKey = strings.TrimSpace(r.LicenseKey)
}

func (r *ActivateLicenseRequest) Validate() error {
	return validation.Validate(r)
}
