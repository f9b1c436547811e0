package store

import "errors"

var (
	// ErrNotFound is returned when no document matches, including ids that
	// are not valid ObjectIDs.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique key (email, handle, user) is taken.
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrAlreadyLiked is returned when the user already appears in a post's likes.
	ErrAlreadyLiked = errors.New("store: post already liked")
	// ErrNotLiked is returned when unliking a post the user never liked.
	ErrNotLiked = errors.New("store: post not liked")
	// ErrCommentNotFound is returned when a post has no comment with the given id.
	ErrCommentNotFound = errors.New("store: comment not found")
)
