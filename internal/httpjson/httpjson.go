// Package httpjson holds the JSON request and response helpers shared by
// the handlers.
package httpjson

import (
	"encoding/json"
	"io"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ayush/devconnector/backend/internal/apperr"
)

const maxBodyBytes = 1 << 20

// Write writes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Decode reads a JSON body into v. An empty body decodes to the zero value.
func Decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return apperr.BadRequest("body", "Invalid request body")
	}
	return nil
}

// Error renders err. Internal failures are logged with their cause; the
// client only sees the generic body.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal && e.Status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(e.Err),
		)
	}
	Write(w, e.Status, e.Fields)
}
