package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ficha/internal/checkin/session"
	tenantmodels "ficha/internal/tenant/models"
	dErrors "ficha/pkg/domain-errors"
	"ficha/pkg/platform/httputil"
	request "ficha/pkg/platform/middleware/request"
)

// Service defines the session registry operations exposed over HTTP.
type Service interface {
	Open(ctx context.Context, tenantID string) (*session.Session, *tenantmodels.TenantConfig)
	Get(id string) (*session.Session, error)
	Close(ctx context.Context, id string) error
}

type Handler struct {
	service         Service
	logger          *slog.Logger
	defaultTenantID string
	contactURL      string
}

// New takes the tenant used when the path carries none and the licensing
// contact link returned with an expired-trial rejection.
func New(service Service, logger *slog.Logger, defaultTenantID, licenseContactURL string) *Handler {
	return &Handler{
		service:         service,
		logger:          logger,
		defaultTenantID: defaultTenantID,
		contactURL:      licenseContactURL,
	}
}

// RegisterOpen mounts the routes that start a session. They are public and
// each call holds server memory, so callers put a rate limiter in front.
func (h *Handler) RegisterOpen(r chi.Router) {
	r.Post("/checkin/sessions", h.HandleOpenSession)
	r.Post("/checkin/{tenant}/sessions", h.HandleOpenSession)
}

// Register mounts the routes that act on an open session.
func (h *Handler) Register(r chi.Router) {
	r.Route("/checkin/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGetSession)
		r.Delete("/", h.HandleCloseSession)
		r.Patch("/fields", h.HandleFieldChange)
		r.Put("/acknowledgement", h.HandleAcknowledgement)
		r.Put("/language", h.HandleLanguage)
		r.Post("/validate", h.HandleValidate)
		r.Post("/submit", h.HandleSubmit)
	})
}

func (h *Handler) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenant")
	if tenantID == "" {
		tenantID = h.defaultTenantID
	}
	if !tenantmodels.ValidID(tenantID) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	sess, tenant := h.service.Open(ctx, tenantID)
	httputil.WriteJSON(w, http.StatusCreated, &SessionResponse{
		Session: sess.View(),
		Tenant:  toTenantView(tenant),
	})
}

// session resolves the path's session, writing a 404 when it is gone.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &SessionResponse{Session: sess.View()})
}

func (h *Handler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleFieldChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FieldChangeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := sess.OnFieldChange(ctx, req.field, req.Value); err != nil {
		// the value itself is guest data and stays out of the log
		h.logger.WarnContext(ctx, "field change rejected",
			"error", err,
			"request_id", requestID,
			"session_id", sess.ID(),
			"field", req.Field,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &SessionResponse{Session: sess.View()})
}

func (h *Handler) HandleAcknowledgement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[AcknowledgementRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	sess.SetAcknowledged(req.Acknowledged)
	httputil.WriteJSON(w, http.StatusOK, &SessionResponse{Session: sess.View()})
}

func (h *Handler) HandleLanguage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[LanguageRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	if err := sess.SetLanguage(req.Language); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &SessionResponse{Session: sess.View()})
}

func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	errs := sess.Validate()
	httputil.WriteJSON(w, http.StatusOK, &ValidateResponse{Valid: len(errs) == 0, Errors: errs})
}

// HandleSubmit answers 200 for both delivered and held submissions; the body's
// "submitted" flag tells them apart. An expired trial is a 403.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	result, err := sess.Submit(ctx)
	if errors.Is(err, session.ErrTrialExpired) {
		h.logger.InfoContext(ctx, "submit blocked by expired trial",
			"request_id", requestID,
			"session_id", sess.ID(),
			"tenant_id", sess.TenantID(),
		)
		httputil.WriteJSON(w, http.StatusForbidden, &TrialExpiredResponse{
			Error:            httputil.DomainCodeToHTTPCode(dErrors.CodeTrialExpired),
			ErrorDescription: err.Error(),
			ContactURL:       h.contactURL,
		})
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "submit failed",
			"error", err,
			"request_id", requestID,
			"session_id", sess.ID(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
