package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/devconnector/backend/internal/apperr"
	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/store"
	"github.com/ayush/devconnector/backend/internal/validation"
)

// MaxAvatarBytes caps uploaded avatar images.
const MaxAvatarBytes = 2 << 20

var avatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) error
}

// AvatarStore defines the interface for avatar image storage.
type AvatarStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, int64, string, error)
	Remove(ctx context.Context, key string) error
}

// Service implements registration, login and token checks.
type Service struct {
	users   UserStore
	tokens  *Tokens
	revoker Revoker
	avatars AvatarStore
}

// NewService wires the auth service. avatars may be nil, in which case
// avatar uploads report the feature as unavailable.
func NewService(users UserStore, tokens *Tokens, revoker Revoker, avatars AvatarStore) *Service {
	return &Service{users: users, tokens: tokens, revoker: revoker, avatars: avatars}
}

// Gravatar returns the default avatar URL for email.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normaliseEmail(req.Email)
	if res := validation.Register(req); !res.IsValid {
		return nil, apperr.Validation(res.Errors)
	}

	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email", "Email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	u := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   Gravatar(req.Email),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("email", "Email already exists")
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Login checks the credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	req.Email = normaliseEmail(req.Email)
	if res := validation.Login(req); !res.IsValid {
		return "", apperr.Validation(res.Errors)
	}

	u, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.NotFound("email", "User not found")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return "", apperr.BadRequest("password", "Password incorrect")
	}

	token, _, err := s.tokens.Issue(u)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

// Verify parses a raw bearer token and rejects revoked ones.
func (s *Service) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.RegisteredClaims.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if revoked {
		return nil, apperr.Unauthorized("Token has been revoked")
	}
	return claims, nil
}

// Current loads the account behind the authenticated claims.
func (s *Service) Current(ctx context.Context, c *Claims) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, c.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Unauthorized("User no longer exists")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Logout revokes the token described by c until it expires.
func (s *Service) Logout(ctx context.Context, c *Claims) error {
	if c.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, c.RegisteredClaims.ID, c.ExpiresAt.Time); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func avatarKey(userID string) string {
	return "avatars/" + userID
}

// AvatarPath is the public URL an uploaded avatar is served from.
func AvatarPath(userID string) string {
	return "/api/users/avatar/" + userID
}

// UploadAvatar stores an image and points the user's avatar at it.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (*models.User, error) {
	if s.avatars == nil {
		return nil, apperr.Unavailable("avatar", "Avatar storage is not configured")
	}
	if size <= 0 || size > MaxAvatarBytes {
		return nil, apperr.BadRequest("avatar", "Avatar must be an image of at most 2MB")
	}
	if !avatarTypes[contentType] {
		return nil, apperr.BadRequest("avatar", "Avatar must be a JPEG, PNG, GIF or WebP image")
	}

	if err := s.avatars.Upload(ctx, avatarKey(userID), r, size, contentType); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.users.UpdateAvatar(ctx, userID, AvatarPath(userID)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("User no longer exists")
		}
		return nil, apperr.Internal(err)
	}
	return s.users.GetUserByID(ctx, userID)
}

// Avatar opens a stored avatar. The caller closes the reader.
func (s *Service) Avatar(ctx context.Context, userID string) (io.ReadCloser, int64, string, error) {
	if s.avatars == nil {
		return nil, 0, "", apperr.Unavailable("avatar", "Avatar storage is not configured")
	}
	rc, size, contentType, err := s.avatars.Download(ctx, avatarKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, 0, "", apperr.NotFound("avatar", "No avatar uploaded for this user")
	}
	if err != nil {
		return nil, 0, "", apperr.Internal(err)
	}
	return rc, size, contentType, nil
}

// RemoveAvatar deletes the user's stored avatar, if any. It does nothing
// when avatar storage is not configured.
func (s *Service) RemoveAvatar(ctx context.Context, userID string) error {
	if s.avatars == nil {
		return nil
	}
	if err := s.avatars.Remove(ctx, avatarKey(userID)); err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperr.Internal(err)
	}
	return nil
}
