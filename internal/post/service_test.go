package post

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/apperr"
	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/store"
)

var (
	alice = &auth.Claims{ID: "alice-id", Name: "Alice", Avatar: "//gravatar/alice"}
	bob   = &auth.Claims{ID: "bob-id", Name: "Bob", Avatar: "//gravatar/bob"}
)

func requireAppErr(t *testing.T, err error, status int, field string) {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
	assert.Contains(t, appErr.Fields, field)
}

func newPost(t *testing.T, svc *Service, c *auth.Claims) *models.Post {
	t.Helper()
	p, err := svc.Create(context.Background(), c, models.PostRequest{Text: "Hello world!"})
	require.NoError(t, err)
	return p
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(store.NewMemoryPosts())

	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"Nine", strings.Repeat("a", 9), false},
		{"Ten", strings.Repeat("a", 10), true},
		{"Three Hundred", strings.Repeat("a", 300), true},
		{"Three Hundred One", strings.Repeat("a", 301), false},
		{"Empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), alice, models.PostRequest{Text: tt.text})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			requireAppErr(t, err, http.StatusBadRequest, "text")
		})
	}
}

func TestCreateAuthorFallback(t *testing.T) {
	svc := NewService(store.NewMemoryPosts())

	p := newPost(t, svc, alice)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, alice.Avatar, p.Avatar)
	assert.Equal(t, alice.ID, p.UserID)
	assert.NotNil(t, p.Likes)

	p, err := svc.Create(context.Background(), alice, models.PostRequest{Text: "Hello again!", Name: "Ally"})
	require.NoError(t, err)
	assert.Equal(t, "Ally", p.Name)
	assert.Equal(t, alice.Avatar, p.Avatar)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryPosts())

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	now := time.Now()
	svc.now = func() time.Time { return now.Add(-time.Minute) }
	older := newPost(t, svc, alice)
	svc.now = func() time.Time { return now }
	newer := newPost(t, svc, bob)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryPosts())
	p := newPost(t, svc, alice)

	_, err := svc.Get(ctx, primitive.NewObjectID().Hex())
	requireAppErr(t, err, http.StatusNotFound, "nopostfound")
	_, err = svc.Get(ctx, "garbage")
	requireAppErr(t, err, http.StatusNotFound, "nopostfound")

	err = svc.Delete(ctx, bob.ID, p.ID.Hex())
	requireAppErr(t, err, http.StatusUnauthorized, "notauthorized")

	require.NoError(t, svc.Delete(ctx, alice.ID, p.ID.Hex()))
	err = svc.Delete(ctx, alice.ID, p.ID.Hex())
	requireAppErr(t, err, http.StatusNotFound, "postnotfound")
}

func TestLikeUnlike(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryPosts())
	id := newPost(t, svc, alice).ID.Hex()

	p, err := svc.Like(ctx, bob.ID, id)
	require.NoError(t, err)
	require.Len(t, p.Likes, 1)
	assert.Equal(t, bob.ID, p.Likes[0].UserID)

	_, err = svc.Like(ctx, bob.ID, id)
	requireAppErr(t, err, http.StatusBadRequest, "alreadyliked")
	p, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, p.Likes, 1)

	_, err = svc.Unlike(ctx, alice.ID, id)
	requireAppErr(t, err, http.StatusBadRequest, "notliked")

	p, err = svc.Unlike(ctx, bob.ID, id)
	require.NoError(t, err)
	assert.Empty(t, p.Likes)

	_, err = svc.Like(ctx, bob.ID, primitive.NewObjectID().Hex())
	requireAppErr(t, err, http.StatusNotFound, "postnotfound")
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryPosts())
	id := newPost(t, svc, alice).ID.Hex()

	_, err := svc.Comment(ctx, bob, id, models.PostRequest{Text: "short"})
	requireAppErr(t, err, http.StatusBadRequest, "text")

	p, err := svc.Comment(ctx, bob, id, models.PostRequest{Text: "Nice post, Alice!"})
	require.NoError(t, err)
	require.Len(t, p.Comments, 1)
	c := p.Comments[0]
	assert.Equal(t, bob.ID, c.UserID)
	assert.Equal(t, "Bob", c.Name)
	assert.False(t, c.ID.IsZero())
	assert.False(t, c.Date.IsZero())

	_, err = svc.RemoveComment(ctx, id, primitive.NewObjectID().Hex())
	requireAppErr(t, err, http.StatusNotFound, "commentnotexists")

	_, err = svc.Comment(ctx, bob, primitive.NewObjectID().Hex(), models.PostRequest{Text: "Nice post, Alice!"})
	requireAppErr(t, err, http.StatusNotFound, "postnotfound")

	p, err = svc.RemoveComment(ctx, id, c.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, p.Comments)
}
