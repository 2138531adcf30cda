package handler

import (
	"time"

	"ficha/internal/license"
	"ficha/internal/tenant/models"
)

type TrialResponse struct {
	State            string `json:"state"`
	Countdown        string `json:"countdown,omitempty"`
	RemainingSeconds int64  `json:"remaining_seconds,omitempty"`
	ContactURL       string `json:"contact_url,omitempty"`
}

// BrandingResponse is the public view of a tenant; it never echoes the license key.
type BrandingResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Subtitle      string          `json:"subtitle"`
	AccentColor   string          `json:"accent_color"`
	Features      models.Features `json:"features"`
	FooterText    string          `json:"footer_text"`
	BackgroundURL string          `json:"background_url,omitempty"`
	LogoURL       string          `json:"logo_url,omitempty"`
	CanDeliver    bool            `json:"can_deliver"`
	Trial         TrialResponse   `json:"trial"`
}

type TenantConfigResponse struct {
	Config *models.TenantConfig `json:"config"`
	Trial  TrialResponse        `json:"trial"`
}

type ThemeChangeResponse struct {
	Config *models.TenantConfig `json:"config,omitempty"`
	Theme  models.ThemeChange   `json:"theme"`
}

func toTrialResponse(state license.State, contactURL string) TrialResponse {
	resp := TrialResponse{State: state.Phase.String(), Countdown: state.Countdown()}
	if state.Phase == license.PhaseCounting {
		resp.RemainingSeconds = int64(state.Remaining / time.Second)
	}
	if !state.AllowsSubmit() {
		resp.ContactURL = contactURL
	}
	return resp
}

func toBrandingResponse(cfg *models.TenantConfig, trial TrialResponse) *BrandingResponse {
	return &BrandingResponse{
		ID:            cfg.ID,
		Name:          cfg.Name,
		Subtitle:      cfg.Subtitle,
		AccentColor:   cfg.AccentColor,
		Features:      cfg.Features,
		FooterText:    cfg.FooterText,
		BackgroundURL: cfg.BackgroundURL,
		LogoURL:       cfg.LogoURL,
		CanDeliver:    cfg.ContactHandle != "",
		Trial:         trial,
	}
}
