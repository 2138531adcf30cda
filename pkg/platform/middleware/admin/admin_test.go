package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAdminToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var operator string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator = GetOperator(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("matching token passes and records operator", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/tenants/x", nil)
		req.Header.Set("X-Admin-Token", "s3cret")
		req.Header.Set("X-Admin-Operator", "front-desk")
		w := httptest.NewRecorder()
		RequireAdminToken("s3cret", logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "front-desk", operator)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/tenants/x", nil)
		req.Header.Set("X-Admin-Token", "nope")
		w := httptest.NewRecorder()
		RequireAdminToken("s3cret", logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unconfigured token disables admin routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/tenants/x", nil)
		w := httptest.NewRecorder()
		RequireAdminToken("", logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
