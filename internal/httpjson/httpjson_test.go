package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ayush/devconnector/backend/internal/apperr"
)

func TestDecode(t *testing.T) {
	var v struct {
		Text string `json:"text"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hello"}`))
	require.NoError(t, Decode(r, &v))
	assert.Equal(t, "hello", v.Text)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, Decode(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
	err := Decode(r, &v)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestErrorRendersFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/posts/1", nil)
	Error(w, r, log, apperr.NotFound("nopostfound", "No post found with that id"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, map[string]string{"nopostfound": "No post found with that id"}, body)
	assert.Equal(t, 0, logs.Len())
}

func TestErrorLogsInternal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	Error(w, r, log, errors.New("mongo: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}
