package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/httpjson"
	"github.com/ayush/devconnector/backend/internal/models"
)

// Handler holds post HTTP handlers.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v interface{}, err error) {
	if err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, v)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	h.respond(w, r, posts, err)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, p, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	c, _ := auth.ClaimsFrom(r.Context())

	var req models.PostRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	p, err := h.svc.Create(r.Context(), c, req)
	h.respond(w, r, p, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	c, _ := auth.ClaimsFrom(r.Context())
	if err := h.svc.Delete(r.Context(), c.ID, chi.URLParam(r, "id")); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	c, _ := auth.ClaimsFrom(r.Context())
	p, err := h.svc.Like(r.Context(), c.ID, chi.URLParam(r, "id"))
	h.respond(w, r, p, err)
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	c, _ := auth.ClaimsFrom(r.Context())
	p, err := h.svc.Unlike(r.Context(), c.ID, chi.URLParam(r, "id"))
	h.respond(w, r, p, err)
}

func (h *Handler) Comment(w http.ResponseWriter, r *http.Request) {
	c, _ := auth.ClaimsFrom(r.Context())

	var req models.PostRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	p, err := h.svc.Comment(r.Context(), c, chi.URLParam(r, "id"), req)
	h.respond(w, r, p, err)
}

func (h *Handler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.RemoveComment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "comment_id"))
	h.respond(w, r, p, err)
}
