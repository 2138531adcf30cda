package handler

import (
	"ficha/internal/checkin/models"
	tenantmodels "ficha/internal/tenant/models"
)

// TenantView is the branding a form needs; the license key never leaves the server.
type TenantView struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Subtitle      string                `json:"subtitle"`
	AccentColor   string                `json:"accent_color"`
	Features      tenantmodels.Features `json:"features"`
	FooterText    string                `json:"footer_text"`
	BackgroundURL string                `json:"background_url,omitempty"`
	LogoURL       string                `json:"logo_url,omitempty"`
}

type SessionResponse struct {
	Session models.SessionView `json:"session"`
	Tenant  *TenantView        `json:"tenant,omitempty"`
}

type ValidateResponse struct {
	Valid  bool               `json:"valid"`
	Errors models.FieldErrors `json:"errors"`
}

type TrialExpiredResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ContactURL       string `json:"contact_url,omitempty"`
}

func toTenantView(cfg *tenantmodels.TenantConfig) *TenantView {
	return &TenantView{
		ID:            cfg.ID,
		Name:          cfg.Name,
		Subtitle:      cfg.Subtitle,
		AccentColor:   cfg.EffectiveAccent(),
		Features:      cfg.Features,
		FooterText:    cfg.FooterText,
		BackgroundURL: cfg.BackgroundURL,
		LogoURL:       cfg.LogoURL,
	}
}
