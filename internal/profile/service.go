package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/apperr"
	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/store"
	"github.com/ayush/devconnector/backend/internal/validation"
)

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	GetByUser(ctx context.Context, userID string) (*models.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	HandleTaken(ctx context.Context, handle, userID string) (bool, error)
	Create(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, userID string, req models.ProfileRequest) (*models.Profile, error)
	PushExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error)
	PushEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error)
	PullExperience(ctx context.Context, userID, expID string) (*models.Profile, error)
	PullEducation(ctx context.Context, userID, eduID string) (*models.Profile, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// UserStore is the slice of the user store profiles need.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// PostStore is used to cascade account deletion to the user's posts.
type PostStore interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// AccountCleaner releases what the auth side holds for a deleted account:
// its stored avatar and the token used to delete it.
type AccountCleaner interface {
	RemoveAvatar(ctx context.Context, userID string) error
	Logout(ctx context.Context, c *auth.Claims) error
}

var (
	errNoProfile   = apperr.NotFound("noprofile", "There is no profile for this user")
	errHandleTaken = apperr.Conflict("handle", "That handle already exists")
)

// Service implements profile reads and mutations.
type Service struct {
	profiles ProfileStore
	users    UserStore
	posts    PostStore
	accounts AccountCleaner
}

func NewService(profiles ProfileStore, users UserStore, posts PostStore, accounts AccountCleaner) *Service {
	return &Service{profiles: profiles, users: users, posts: posts, accounts: accounts}
}

// Current returns the caller's own profile.
func (s *Service) Current(ctx context.Context, userID string) (*models.Profile, error) {
	return s.found(ctx, func() (*models.Profile, error) { return s.profiles.GetByUser(ctx, userID) })
}

func (s *Service) ByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return s.found(ctx, func() (*models.Profile, error) { return s.profiles.GetByHandle(ctx, handle) })
}

func (s *Service) ByUser(ctx context.Context, userID string) (*models.Profile, error) {
	return s.found(ctx, func() (*models.Profile, error) { return s.profiles.GetByUser(ctx, userID) })
}

// All returns every profile with the owning users joined.
func (s *Service) All(ctx context.Context) ([]models.Profile, error) {
	list, err := s.profiles.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(list) == 0 {
		return nil, apperr.NotFound("profiles", "There are no profiles")
	}

	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.UserID)
	}
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for i := range list {
		if u, ok := users[list[i].UserID]; ok {
			list[i].User = u.Ref()
		}
	}
	return list, nil
}

// Save creates the caller's profile or updates the fields present in req.
func (s *Service) Save(ctx context.Context, userID string, req models.ProfileRequest) (*models.Profile, error) {
	req = trimRequest(req)
	if res := validation.Profile(req); !res.IsValid {
		return nil, apperr.Validation(res.Errors)
	}

	taken, err := s.profiles.HandleTaken(ctx, req.Handle, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, errHandleTaken
	}

	_, err = s.profiles.GetByUser(ctx, userID)
	switch {
	case err == nil:
		p, err := s.profiles.Update(ctx, userID, req)
		if err != nil {
			return nil, storeErr(err)
		}
		return s.join(ctx, p)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Internal(err)
	}

	p := newProfile(userID, req)
	err = s.profiles.Create(ctx, p)
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent first save for the same user won the insert.
		if _, gerr := s.profiles.GetByUser(ctx, userID); gerr == nil {
			if p, err = s.profiles.Update(ctx, userID, req); err != nil {
				return nil, storeErr(err)
			}
			return s.join(ctx, p)
		}
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return s.join(ctx, p)
}

func newProfile(userID string, req models.ProfileRequest) *models.Profile {
	skills := []string(req.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &models.Profile{
		UserID:         userID,
		Handle:         req.Handle,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GitHubUsername: req.GitHubUsername,
		Skills:         skills,
		Social: models.Social{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
		Experience: []models.Experience{},
		Education:  []models.Education{},
	}
}

func trimRequest(req models.ProfileRequest) models.ProfileRequest {
	for _, f := range []*string{
		&req.Handle, &req.Company, &req.Website, &req.Location, &req.Bio, &req.Status,
		&req.GitHubUsername, &req.YouTube, &req.Twitter, &req.Facebook, &req.LinkedIn, &req.Instagram,
	} {
		*f = strings.TrimSpace(*f)
	}
	return req
}

func (s *Service) AddExperience(ctx context.Context, userID string, req models.ExperienceRequest) (*models.Profile, error) {
	if res := validation.Experience(req); !res.IsValid {
		return nil, apperr.Validation(res.Errors)
	}
	from, to, err := dateRange(req.From, req.To, req.Current)
	if err != nil {
		return nil, err
	}

	exp := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	}
	return s.found(ctx, func() (*models.Profile, error) { return s.profiles.PushExperience(ctx, userID, exp) })
}

func (s *Service) AddEducation(ctx context.Context, userID string, req models.EducationRequest) (*models.Profile, error) {
	if res := validation.Education(req); !res.IsValid {
		return nil, apperr.Validation(res.Errors)
	}
	from, to, err := dateRange(req.From, req.To, req.Current)
	if err != nil {
		return nil, err
	}

	edu := models.Education{
		ID:           primitive.NewObjectID(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	}
	return s.found(ctx, func() (*models.Profile, error) { return s.profiles.PushEducation(ctx, userID, edu) })
}

// dateRange parses already validated dates. A current entry has no end.
func dateRange(fromRaw, toRaw string, current bool) (time.Time, *time.Time, error) {
	from, err := validation.ParseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, apperr.BadRequest("from", "From date is invalid")
	}
	if current || strings.TrimSpace(toRaw) == "" {
		return from, nil, nil
	}
	to, err := validation.ParseDate(toRaw)
	if err != nil {
		return time.Time{}, nil, apperr.BadRequest("to", "To date is invalid")
	}
	return from, &to, nil
}

// RemoveExperience deletes one experience entry. Unknown ids are ignored.
func (s *Service) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return s.found(ctx, func() (*models.Profile, error) { return s.profiles.PullExperience(ctx, userID, expID) })
}

func (s *Service) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return s.found(ctx, func() (*models.Profile, error) { return s.profiles.PullEducation(ctx, userID, eduID) })
}

// DeleteAccount removes the caller's profile, posts and user, then revokes
// the token that made the request.
func (s *Service) DeleteAccount(ctx context.Context, c *auth.Claims) error {
	if err := s.profiles.DeleteByUser(ctx, c.ID); err != nil {
		return apperr.Internal(err)
	}
	if _, err := s.posts.DeleteByUser(ctx, c.ID); err != nil {
		return apperr.Internal(err)
	}
	if err := s.accounts.RemoveAvatar(ctx, c.ID); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, c.ID); err != nil {
		return apperr.Internal(err)
	}
	return s.accounts.Logout(ctx, c)
}

// found runs a store call, maps absence to noprofile and joins the user.
func (s *Service) found(ctx context.Context, get func() (*models.Profile, error)) (*models.Profile, error) {
	p, err := get()
	if err != nil {
		return nil, storeErr(err)
	}
	return s.join(ctx, p)
}

func (s *Service) join(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	u, err := s.users.GetUserByID(ctx, p.UserID)
	switch {
	case err == nil:
		p.User = u.Ref()
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errNoProfile
	case errors.Is(err, store.ErrDuplicate):
		return errHandleTaken
	default:
		return apperr.Internal(err)
	}
}
