package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ayush/devconnector/backend/internal/apperr"
	"github.com/ayush/devconnector/backend/internal/auth"
)

type stubVerifier map[string]*auth.Claims

func (s stubVerifier) Verify(_ context.Context, raw string) (*auth.Claims, error) {
	if c, ok := s[raw]; ok {
		return c, nil
	}
	return nil, apperr.Unauthorized("Invalid or expired token")
}

func TestRequireAuth(t *testing.T) {
	verifier := stubVerifier{"good": {ID: "u1", Name: "Alice"}}

	r := chi.NewRouter()
	r.With(RequireAuth(verifier, zap.NewNop())).Get("/private", func(w http.ResponseWriter, r *http.Request) {
		c, ok := auth.ClaimsFrom(r.Context())
		require.True(t, ok)
		w.Write([]byte(c.ID))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"Happy Path", "Bearer good", http.StatusOK, "u1"},
		{"Lowercase Scheme", "bearer good", http.StatusOK, "u1"},
		{"Missing Header", "", http.StatusUnauthorized, ""},
		{"Invalid Format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"Empty Token", "Bearer ", http.StatusUnauthorized, ""},
		{"Bad Token", "Bearer bad", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "unauthorized")
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := chi.NewRouter()
	r.Use(Logger(zap.New(core)))
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["bytes"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "/missing", entries[1].ContextMap()["path"])
}

func TestMetricsUseRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/api/posts/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/posts/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/posts/{id}", "204")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requests))

	out, err := testutil.GatherAndCount(reg, "devconnector_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, out)
}
