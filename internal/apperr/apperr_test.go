package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
		kind   Kind
		key    string
	}{
		{"Validation", Validation(map[string]string{"text": "required"}), http.StatusBadRequest, KindValidation, "text"},
		{"NotFound", NotFound("noprofile", "There is no profile for this user"), http.StatusNotFound, KindNotFound, "noprofile"},
		{"Unauthorized", Unauthorized("Token expired"), http.StatusUnauthorized, KindUnauthorized, "unauthorized"},
		{"Forbidden", Forbidden("User not authorized"), http.StatusUnauthorized, KindForbidden, "notauthorized"},
		{"Conflict", Conflict("handle", "That handle already exists"), http.StatusBadRequest, KindConflict, "handle"},
		{"Internal", Internal(errors.New("boom")), http.StatusInternalServerError, KindInternal, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Contains(t, tt.err.Fields, tt.key)
		})
	}
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("like post: %w", NotFound("postnotfound", "Post not found"))
	e := From(wrapped)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.True(t, IsKind(wrapped, KindNotFound))

	cause := errors.New("connection reset")
	e = From(cause)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.ErrorIs(t, e, cause)
	assert.NotContains(t, e.Fields["error"], "connection reset")
}
