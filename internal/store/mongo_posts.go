package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/devconnector/backend/internal/models"
)

// MongoPosts handles feed posts in MongoDB.
type MongoPosts struct {
	col *mongo.Collection
}

func NewMongoPosts(db *mongo.Database) *MongoPosts {
	return &MongoPosts{col: db.Collection(postsCollection)}
}

func (s *MongoPosts) Create(ctx context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	_, err := s.col.InsertOne(ctx, p)
	return writeErr("insert post", err)
}

// List returns every post, newest first.
func (s *MongoPosts) List(ctx context.Context) ([]models.Post, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("mongo find posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("mongo decode posts: %w", err)
	}
	return posts, nil
}

func (s *MongoPosts) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var p models.Post
	if err := decodeOne(s.col.FindOne(ctx, bson.M{"_id": oid}), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mongo find post: %w", err)
	}
	return &p, nil
}

func (s *MongoPosts) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser removes every post authored by userID.
func (s *MongoPosts) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("mongo delete posts: %w", err)
	}
	return res.DeletedCount, nil
}

// AddLike prepends like unless its user already liked the post. The check
// and the push are one conditional update.
func (s *MongoPosts) AddLike(ctx context.Context, postID string, like models.Like) (*models.Post, error) {
	oid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	p, err := s.findAndUpdate(ctx, notLikedBy(oid, like.UserID), pushFront("likes", like))
	if errors.Is(err, ErrNotFound) {
		return nil, s.missingOr(ctx, oid, ErrAlreadyLiked)
	}
	return p, err
}

func (s *MongoPosts) RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	oid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	p, err := s.findAndUpdate(ctx, likedBy(oid, userID), pullLike(userID))
	if errors.Is(err, ErrNotFound) {
		return nil, s.missingOr(ctx, oid, ErrNotLiked)
	}
	return p, err
}

func (s *MongoPosts) AddComment(ctx context.Context, postID string, c models.Comment) (*models.Post, error) {
	oid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	return s.findAndUpdate(ctx, bson.M{"_id": oid}, pushFront("comments", c))
}

func (s *MongoPosts) RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	oid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID(commentID)
	if err != nil {
		return nil, s.missingOr(ctx, oid, ErrCommentNotFound)
	}
	p, err := s.findAndUpdate(ctx, hasComment(oid, cid), pullByID("comments", cid))
	if errors.Is(err, ErrNotFound) {
		return nil, s.missingOr(ctx, oid, ErrCommentNotFound)
	}
	return p, err
}

// missingOr distinguishes a conditional update that matched nothing because
// the post is gone from one whose condition failed.
func (s *MongoPosts) missingOr(ctx context.Context, oid primitive.ObjectID, cond error) error {
	ok, err := exists(ctx, s.col, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return cond
}

func (s *MongoPosts) findAndUpdate(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	var p models.Post
	if err := decodeOne(s.col.FindOneAndUpdate(ctx, filter, update, returnAfter), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mongo update post: %w", err)
	}
	return &p, nil
}
