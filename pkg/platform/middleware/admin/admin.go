package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	request "ficha/pkg/platform/middleware/request"
)

type contextKeyOperator struct{}

// GetOperator returns the operator name sent in X-Admin-Operator, if any.
func GetOperator(ctx context.Context) string {
	if op, ok := ctx.Value(contextKeyOperator{}).(string); ok {
		return op
	}
	return ""
}

// RequireAdminToken gates the tenant administration routes. An empty expected
// token disables them entirely.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get("X-Admin-Token")
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", request.GetRequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`)) //nolint:errcheck // headers already sent
				return
			}

			if op := r.Header.Get("X-Admin-Operator"); op != "" {
				ctx = context.WithValue(ctx, contextKeyOperator{}, op)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
