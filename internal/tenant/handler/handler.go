package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ficha/internal/license"
	"ficha/internal/tenant/models"
	dErrors "ficha/pkg/domain-errors"
	"ficha/pkg/platform/httputil"
	adminmw "ficha/pkg/platform/middleware/admin"
	request "ficha/pkg/platform/middleware/request"
	"ficha/pkg/requestcontext"
)

// Service defines the tenant operations exposed over HTTP.
type Service interface {
	LoadTenant(ctx context.Context, id string) *models.TenantConfig
	UpdateTenant(ctx context.Context, cfg *models.TenantConfig) (*models.TenantConfig, models.ThemeChange, error)
	PreviewTheme(id, color string) (models.ThemeChange, error)
	ActivateLicense(ctx context.Context, id, key string) (*models.TenantConfig, error)
}

type Handler struct {
	service    Service
	logger     *slog.Logger
	contactURL string
}

// New takes the licensing contact link shown once a trial has expired.
func New(service Service, logger *slog.Logger, licenseContactURL string) *Handler {
	return &Handler{service: service, logger: logger, contactURL: licenseContactURL}
}

// Register mounts the public branding route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/tenants/{id}", h.HandleGetBranding)
}

// RegisterAdmin mounts the administration routes; callers wrap r with the
// admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/tenants/{id}", h.HandleGetTenant)
	r.Put("/admin/tenants/{id}", h.HandleUpdateTenant)
	r.Post("/admin/tenants/{id}/theme/preview", h.HandlePreviewTheme)
	r.Post("/admin/tenants/{id}/license", h.HandleActivateLicense)
}

func (h *Handler) trial(ctx context.Context, cfg *models.TenantConfig) TrialResponse {
	state := license.Evaluate(cfg.LicenseKey, cfg.CreatedAt, requestcontext.Now(ctx))
	return toTrialResponse(state, h.contactURL)
}

// tenantID reads the path id, writing a 400 when it cannot name a tenant.
func tenantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !models.ValidID(id) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return "", false
	}
	return id, true
}

// HandleGetBranding resolves (and if needed provisions) a tenant for the form.
func (h *Handler) HandleGetBranding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := tenantID(w, r)
	if !ok {
		return
	}
	cfg := h.service.LoadTenant(ctx, id)
	httputil.WriteJSON(w, http.StatusOK, toBrandingResponse(cfg, h.trial(ctx, cfg)))
}

func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := tenantID(w, r)
	if !ok {
		return
	}
	cfg := h.service.LoadTenant(ctx, id)
	httputil.WriteJSON(w, http.StatusOK, &TenantConfigResponse{Config: cfg, Trial: h.trial(ctx, cfg)})
}

func (h *Handler) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	tenantID := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[UpdateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cfg, change, err := h.service.UpdateTenant(ctx, req.toModel(tenantID))
	if err != nil {
		h.logger.ErrorContext(ctx, "update tenant failed",
			"error", err,
			"request_id", requestID,
			"tenant_id", tenantID,
			"operator", adminmw.GetOperator(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &ThemeChangeResponse{Config: cfg, Theme: change})
}

func (h *Handler) HandlePreviewTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PreviewThemeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	change, err := h.service.PreviewTheme(chi.URLParam(r, "id"), req.AccentColor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ThemeChangeResponse{Theme: change})
}

func (h *Handler) HandleActivateLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	tenantID := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[ActivateLicenseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cfg, err := h.service.ActivateLicense(ctx, tenantID, req.LicenseKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "activate license failed",
			"error", err,
			"request_id", requestID,
			"tenant_id", tenantID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &TenantConfigResponse{Config: cfg, Trial: h.trial(ctx, cfg)})
}
