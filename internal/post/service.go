package post

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

// PostStore defines the interface for post persistence.
type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID string, like models.Like) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error)
	AddComment(ctx context.Context, postID string, c models.Comment) (*models.Post, error)
	RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error)
}

var errPostNotFound = apperr.NotFound("postnotfound", "Post not found")

// Service implements the feed operations.
type Service struct {
	posts PostStore
	now   func() time.Time
}

func NewService(posts PostStore) *Service {
	return &Service{posts: posts, now: time.Now}
}

// List returns all posts, newest first.
func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("nopostfound", "No post found with that id")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return p, nil
}

// Create publishes a post for the caller. Name and avatar default to the
// ones carried in the token.
func (s *Service) Create(ctx context.Context, c *auth.Claims, req models.PostRequest) (*models.Post, error) {
	if res := validation.Post(req); !res.IsValid {
		return nil, apperr.Validation(res.Errors)
	}

	name, avatar := author(c, req)
	p := &models.Post{
		UserID:   c.ID,
		Text:     req.Text,
		Name:     name,
		Avatar:   avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     s.now().UTC(),
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func author(c *auth.Claims, req models.PostRequest) (string, string) {
	name, avatar := strings.TrimSpace(req.Name), strings.TrimSpace(req.Avatar)
	if name == "" {
		name = c.Name
	}
	if avatar == "" {
		avatar = c.Avatar
	}
	return name, avatar
}

// Delete removes a post owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if p.UserID != userID {
		return apperr.Forbidden("User not authorized")
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Service) Like(ctx context.Context, userID, id string) (*models.Post, error) {
	p, err := s.posts.AddLike(ctx, id, models.Like{ID: primitive.NewObjectID(), UserID: userID})
	if err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

func (s *Service) Unlike(ctx context.Context, userID, id string) (*models.Post, error) {
	p, err := s.posts.RemoveLike(ctx, id, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

// Comment prepends a comment by the caller.
func (s *Service) Comment(ctx context.Context, c *auth.Claims, id string, req models.PostRequest) (*models.Post, error) {
	if res := validation.Post(req); !res.IsValid {
		return nil, apperr.Validation(res.Errors)
	}

	name, avatar := author(c, req)
	p, err := s.posts.AddComment(ctx, id, models.Comment{
		ID:     primitive.NewObjectID(),
		UserID: c.ID,
		Text:   req.Text,
		Name:   name,
		Avatar: avatar,
		Date:   s.now().UTC(),
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

// RemoveComment deletes a comment from a post.
func (s *Service) RemoveComment(ctx context.Context, id, commentID string) (*models.Post, error) {
	p, err := s.posts.RemoveComment(ctx, id, commentID)
	if err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errPostNotFound
	case errors.Is(err, store.ErrAlreadyLiked):
		return apperr.BadRequest("alreadyliked", "User already liked this post")
	case errors.Is(err, store.ErrNotLiked):
		return apperr.BadRequest("notliked", "You have not yet liked this post")
	case errors.Is(err, store.ErrCommentNotFound):
		return apperr.NotFound("commentnotexists", "Comment does not exist")
	default:
		return apperr.Internal(err)
	}
}
