package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like records one user's like on a post.
type Like struct {
	ID     primitive.ObjectID `json:"_id"  bson:"_id"`
	UserID string             `json:"user" bson:"user"`
}

// Comment is a reply embedded in a post.
type Comment struct {
	ID     primitive.ObjectID `json:"_id"    bson:"_id"`
	UserID string             `json:"user"   bson:"user"`
	Text   string             `json:"text"   bson:"text"`
	Name   string             `json:"name"   bson:"name,omitempty"`
	Avatar string             `json:"avatar" bson:"avatar,omitempty"`
	Date   time.Time          `json:"date"   bson:"date"`
}

// Post is a feed entry. Likes and comments are kept newest first.
type Post struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id,omitempty"`
	UserID   string             `json:"user"     bson:"user"`
	Text     string             `json:"text"     bson:"text"`
	Name     string             `json:"name"     bson:"name,omitempty"`
	Avatar   string             `json:"avatar"   bson:"avatar,omitempty"`
	Likes    []Like             `json:"likes"    bson:"likes"`
	Comments []Comment          `json:"comments" bson:"comments"`
	Date     time.Time          `json:"date"     bson:"date"`
}

// LikedBy reports whether userID appears in the post's likes.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// PostRequest is the JSON body for creating a post or a comment.
type PostRequest struct {
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
