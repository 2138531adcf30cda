package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"ficha/internal/tenant/models"
	"ficha/internal/tenant/service"
	"ficha/internal/tenant/store"
	adminmw "ficha/pkg/platform/middleware/admin"
	"ficha/pkg/requestcontext"
)

const (
	adminToken = "secret-token"
	contactURL = "https://wa.me/5561982062229?text=license"
)

type HandlerSuite struct {
	suite.Suite
	store  *store.InMemory
	router http.Handler
	now    time.Time
}

func (s *HandlerSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(service.New(s.store, service.WithLogger(logger)), logger, contactURL)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithTime(req.Context(), s.now)))
		})
	})
	h.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(adminToken, logger))
		h.RegisterAdmin(r)
	})
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("X-Admin-Token", adminToken)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestPublicBrandingHidesLicenseKey() {
	created := s.now.Add(-time.Hour)
	s.Require().NoError(s.store.Put(context.Background(), &models.TenantConfig{
		ID: "hotel-x", Name: "Hotel X", AccentColor: "#112233", ThemeColor: "#112233",
		ContactHandle: "5511999999999", LicenseKey: "LIC-SECRET", CreatedAt: &created,
	}))

	rec := s.do(http.MethodGet, "/tenants/hotel-x", "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "LIC-SECRET")

	var body BrandingResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal("Hotel X", body.Name)
	s.True(body.CanDeliver)
	s.Equal("active", body.Trial.State)
}

func (s *HandlerSuite) TestBrandingShowsCountdownAndExpiry() {
	rec := s.do(http.MethodGet, "/tenants/brand-new", "", false)
	var body BrandingResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal("counting", body.Trial.State)
	s.Equal("24:00:00", body.Trial.Countdown)
	s.False(body.CanDeliver)

	created := s.now.Add(-25 * time.Hour)
	s.Require().NoError(s.store.Put(context.Background(), &models.TenantConfig{
		ID: "late-inn", AccentColor: models.AccentGold, ThemeColor: models.AccentGold, CreatedAt: &created,
	}))
	rec = s.do(http.MethodGet, "/tenants/late-inn", "", false)
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal("expired", body.Trial.State)
	s.Equal(contactURL, body.Trial.ContactURL)
}

func (s *HandlerSuite) TestBrandingProvisionsAnyWellFormedID() {
	for _, id := range []string{"hotel.rio", "Hotel-Copacabana", "pousada_sol"} {
		rec := s.do(http.MethodGet, "/tenants/"+id, "", false)
		s.Require().Equal(http.StatusOK, rec.Code, id)

		var body BrandingResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.Equal(id, body.ID)
		s.Equal("counting", body.Trial.State)
	}
}

func (s *HandlerSuite) TestBrandingRejectsUnusableID() {
	for _, path := range []string{"/tenants/a%20b", "/tenants/-x", "/tenants/_x", "/tenants/" + strings.Repeat("a", models.MaxIDLength+1)} {
		rec := s.do(http.MethodGet, path, "", false)
		s.Equal(http.StatusBadRequest, rec.Code, path)
	}
	_, err := s.store.Get(context.Background(), "-x")
	s.Error(err)
}

func (s *HandlerSuite) TestAdminTokenRequired() {
	rec := s.do(http.MethodGet, "/admin/tenants/hotel-x", "", false)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestAdminGetShowsFullRecord() {
	rec := s.do(http.MethodGet, "/admin/tenants/demo-hotel", "", true)
	s.Equal(http.StatusOK, rec.Code)

	var body TenantConfigResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal(models.DefaultContactHandle, body.Config.ContactHandle)
}

func (s *HandlerSuite) TestUpdateTenant() {
	rec := s.do(http.MethodPut, "/admin/tenants/hotel-x",
		`{"name":"Hotel X","subtitle":"Beira Mar","contact_handle":"(11) 99999-0000","accent_color":"#0f766e","garage_enabled":true}`, true)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body ThemeChangeResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal("#0F766E", body.Theme.AccentColor)
	s.False(body.Theme.Preview)
	s.Equal("11999990000", body.Config.ContactHandle)
	s.True(body.Config.Features.GarageEnabled)

	stored, err := s.store.Get(context.Background(), "hotel-x")
	s.Require().NoError(err)
	s.Equal("Beira Mar", stored.Subtitle)
}

func (s *HandlerSuite) TestUpdateTenantRejectsBadInput() {
	rec := s.do(http.MethodPut, "/admin/tenants/hotel-x", `{"name":"  ","accent_color":"#0f766e"}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/admin/tenants/hotel-x", `{"name":"X","accent_color":"gold"}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/admin/tenants/-bad", `{"name":"X"}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/admin/tenants/hotel-x", `{not json`, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestPreviewTheme() {
	rec := s.do(http.MethodPost, "/admin/tenants/hotel-x/theme/preview", `{"accent_color":"#abcdef"}`, true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"theme":{"tenant_id":"hotel-x","accent_color":"#ABCDEF","preview":true}}`, rec.Body.String())

	_, err := s.store.Get(context.Background(), "hotel-x")
	s.Error(err, "preview must not provision or persist")
}

func (s *HandlerSuite) TestActivateLicenseEndsTrial() {
	created := s.now.Add(-48 * time.Hour)
	s.Require().NoError(s.store.Put(context.Background(), &models.TenantConfig{
		ID: "late-inn", AccentColor: models.AccentGold, ThemeColor: models.AccentGold, CreatedAt: &created,
	}))

	rec := s.do(http.MethodPost, "/admin/tenants/late-inn/license", `{"license_key":"LIC-9"}`, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body TenantConfigResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal("active", body.Trial.State)
	s.Empty(body.Trial.ContactURL)

	rec = s.do(http.MethodPost, "/admin/tenants/late-inn/license", `{"license_key":""}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}
