package auth

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayush/devconnector/backend/internal/apperr"
	"github.com/ayush/devconnector/backend/internal/httpjson"
	"github.com/ayush/devconnector/backend/internal/models"
)

// Handler holds user account HTTP handlers.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}

// Login authenticates a user and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}

	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   "Bearer " + token,
	})
}

// Current returns the authenticated user.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	user, err := h.svc.Current(r.Context(), claims)
	if err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"avatar": user.Avatar,
	})
}

// Logout revokes the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	if err := h.svc.Logout(r.Context(), claims); err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// UploadAvatar accepts a multipart "avatar" image.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarBytes+64<<10)
	if err := r.ParseMultipartForm(MaxAvatarBytes); err != nil {
		httpjson.Error(w, r, h.log, apperr.BadRequest("avatar", "Avatar must be an image of at most 2MB"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httpjson.Error(w, r, h.log, apperr.BadRequest("avatar", "Avatar file is required"))
		return
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		httpjson.Error(w, r, h.log, apperr.Internal(err))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		httpjson.Error(w, r, h.log, apperr.Internal(err))
		return
	}

	user, err := h.svc.UploadAvatar(r.Context(), claims.ID, file, header.Size, http.DetectContentType(sniff[:n]))
	if err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}

// Avatar streams a user's uploaded avatar.
func (h *Handler) Avatar(w http.ResponseWriter, r *http.Request) {
	rc, size, contentType, err := h.svc.Avatar(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		httpjson.Error(w, r, h.log, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn("avatar stream interrupted", zap.Error(err))
	}
}
