package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/devconnector/backend/internal/apperr"
	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/httpjson"
)

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*auth.Claims, error)
}

// RequireAuth validates the Authorization bearer token and injects the
// claims into the request context.
func RequireAuth(v Verifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httpjson.Error(w, r, log, apperr.Unauthorized("Missing authorization header"))
				return
			}

			scheme, raw, ok := strings.Cut(header, " ")
			raw = strings.TrimSpace(raw)
			if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				httpjson.Error(w, r, log, apperr.Unauthorized("Authorization header must be Bearer <token>"))
				return
			}

			claims, err := v.Verify(r.Context(), raw)
			if err != nil {
				httpjson.Error(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}
