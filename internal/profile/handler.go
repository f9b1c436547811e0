package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/httpjson"
	"github.com/ayush/devconnector/backend/internal/models"
)

// Handler holds profile HTTP handlers.
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

func userID(r *http.Request) string {
	c, _ := auth.ClaimsFrom(r.Context())
	return c.ID
}

// Current returns the authenticated user's profile.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Current(r.Context(), userID(r))
	h.respond(w, r, p, err)
}

func (h *Handler) ByHandle(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ByHandle(r.Context(), chi.URLParam(r, "handle"))
	h.respond(w, r, p, err)
}

func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ByUser(r.Context(), chi.URLParam(r, "user_id"))
	h.respond(w, r, p, err)
}

func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.All(r.Context())
	h.respond(w, r, list, err)
}

// Save creates or updates the authenticated user's profile.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	p, err := h.svc.Save(r.Context(), userID(r), req)
	h.respond(w, r, p, err)
}

func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var req models.ExperienceRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	p, err := h.svc.AddExperience(r.Context(), userID(r), req)
	h.respond(w, r, p, err)
}

func (h *Handler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var req models.EducationRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	p, err := h.svc.AddEducation(r.Context(), userID(r), req)
	h.respond(w, r, p, err)
}

func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.RemoveExperience(r.Context(), userID(r), chi.URLParam(r, "exp_id"))
	h.respond(w, r, p, err)
}

func (h *Handler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.RemoveEducation(r.Context(), userID(r), chi.URLParam(r, "edu_id"))
	h.respond(w, r, p, err)
}

// Delete removes the profile and the account behind it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	c, _ := auth.ClaimsFrom(r.Context())
	if err := h.svc.DeleteAccount(r.Context(), c); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}
