package profile

import (
	"context"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/apperr"
	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/store"
)

type recordingAccounts struct {
	avatarsRemoved []string
	revoked        []string
}

func (r *recordingAccounts) RemoveAvatar(_ context.Context, userID string) error {
	r.avatarsRemoved = append(r.avatarsRemoved, userID)
	return nil
}

func (r *recordingAccounts) Logout(_ context.Context, c *auth.Claims) error {
	r.revoked = append(r.revoked, c.ID)
	return nil
}

// racingProfiles lets another save for the same user land between the
// service's existence check and its insert.
type racingProfiles struct {
	*store.MemoryProfiles
	winner *models.Profile
}

func (r *racingProfiles) Create(ctx context.Context, p *models.Profile) error {
	if r.winner != nil {
		w := r.winner
		r.winner = nil
		if err := r.MemoryProfiles.Create(ctx, w); err != nil {
			return err
		}
		return store.ErrDuplicate
	}
	return r.MemoryProfiles.Create(ctx, p)
}

type fixture struct {
	svc      *Service
	users    *store.MemoryUsers
	profiles *store.MemoryProfiles
	posts    *store.MemoryPosts
	accounts *recordingAccounts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    store.NewMemoryUsers(),
		profiles: store.NewMemoryProfiles(),
		posts:    store.NewMemoryPosts(),
		accounts: &recordingAccounts{},
	}
	f.svc = NewService(f.profiles, f.users, f.posts, f.accounts)
	return f
}

func (f *fixture) user(t *testing.T) *models.User {
	t.Helper()
	u := &models.User{Name: gofakeit.Name(), Email: gofakeit.Email(), Avatar: "//www.gravatar.com/avatar/x"}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u
}

func requireAppErr(t *testing.T, err error, status int, field string) {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
	assert.Contains(t, appErr.Fields, field)
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t)

	p, err := f.svc.Save(ctx, u.ID, models.ProfileRequest{
		Handle:  "alice",
		Status:  "Developer",
		Company: "Acme",
		Skills:  models.SkillList{"go", "mongodb"},
		Twitter: "https://twitter.com/alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Handle)
	assert.Equal(t, []string{"go", "mongodb"}, p.Skills)
	require.NotNil(t, p.User)
	assert.Equal(t, u.Name, p.User.Name)

	p, err = f.svc.Save(ctx, u.ID, models.ProfileRequest{Handle: "alice", Status: "Lead"})
	require.NoError(t, err)
	assert.Equal(t, "Lead", p.Status)
	assert.Equal(t, "Acme", p.Company, "omitted fields are untouched")
	assert.Equal(t, "https://twitter.com/alice", p.Social.Twitter)
	assert.Equal(t, []string{"go", "mongodb"}, p.Skills)
}

func TestSaveHandleCollision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b := f.user(t), f.user(t)

	_, err := f.svc.Save(ctx, a.ID, models.ProfileRequest{Handle: "alice", Status: "Dev"})
	require.NoError(t, err)

	_, err = f.svc.Save(ctx, b.ID, models.ProfileRequest{Handle: "alice", Status: "Dev"})
	requireAppErr(t, err, http.StatusBadRequest, "handle")

	_, err = f.profiles.GetByUser(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "no second profile is persisted")

	_, err = f.svc.Save(ctx, b.ID, models.ProfileRequest{Handle: "bob", Status: "Dev"})
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, b.ID, models.ProfileRequest{Handle: "alice", Status: "Dev"})
	requireAppErr(t, err, http.StatusBadRequest, "handle")
}

func TestSaveConcurrentFirstSave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t)

	racing := &racingProfiles{
		MemoryProfiles: f.profiles,
		winner:         &models.Profile{UserID: u.ID, Handle: "alice", Status: "Student"},
	}
	svc := NewService(racing, f.users, f.posts, f.accounts)

	p, err := svc.Save(ctx, u.ID, models.ProfileRequest{Handle: "alice", Status: "Developer"})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Handle)
	assert.Equal(t, "Developer", p.Status)

	all, err := f.profiles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveValidation(t *testing.T) {
	_, err := newFixture(t).svc.Save(context.Background(), "u1", models.ProfileRequest{Website: "not a url"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "handle")
	assert.Contains(t, appErr.Fields, "status")
	assert.Contains(t, appErr.Fields, "website")
}

func TestReadsReportNoProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Current(ctx, "u1")
	requireAppErr(t, err, http.StatusNotFound, "noprofile")
	_, err = f.svc.ByHandle(ctx, "ghost")
	requireAppErr(t, err, http.StatusNotFound, "noprofile")
	_, err = f.svc.ByUser(ctx, "ghost")
	requireAppErr(t, err, http.StatusNotFound, "noprofile")
	_, err = f.svc.All(ctx)
	requireAppErr(t, err, http.StatusNotFound, "profiles")
	_, err = f.svc.AddExperience(ctx, "u1", models.ExperienceRequest{
		Title: "Engineer", Company: "Acme", From: "2020-01-01", Current: true,
	})
	requireAppErr(t, err, http.StatusNotFound, "noprofile")
}

func TestAllJoinsUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b := f.user(t), f.user(t)

	_, err := f.svc.Save(ctx, a.ID, models.ProfileRequest{Handle: "zed", Status: "Dev"})
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, b.ID, models.ProfileRequest{Handle: "amy", Status: "Dev"})
	require.NoError(t, err)

	list, err := f.svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "amy", list[0].Handle)
	assert.Equal(t, b.ID, list[0].User.ID)
	assert.Equal(t, a.Name, list[1].User.Name)
}

func TestExperienceLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t)
	_, err := f.svc.Save(ctx, u.ID, models.ProfileRequest{Handle: "alice", Status: "Dev"})
	require.NoError(t, err)

	_, err = f.svc.AddExperience(ctx, u.ID, models.ExperienceRequest{Title: "Engineer", Company: "Acme", From: "2020-01-01"})
	requireAppErr(t, err, http.StatusBadRequest, "to")

	p, err := f.svc.AddExperience(ctx, u.ID, models.ExperienceRequest{
		Title: "Junior", Company: "Acme", From: "2018-01-01", To: "2019-12-31",
	})
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	require.NotNil(t, p.Experience[0].To)

	p, err = f.svc.AddExperience(ctx, u.ID, models.ExperienceRequest{
		Title: "Senior", Company: "Acme", From: "2020-01-01", To: "2021-01-01", Current: true,
	})
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Senior", p.Experience[0].Title)
	assert.Nil(t, p.Experience[0].To, "current entries have no end date")

	p, err = f.svc.RemoveExperience(ctx, u.ID, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Len(t, p.Experience, 2)

	p, err = f.svc.RemoveExperience(ctx, u.ID, "not-an-id")
	require.NoError(t, err)
	assert.Len(t, p.Experience, 2)

	p, err = f.svc.RemoveExperience(ctx, u.ID, p.Experience[0].ID.Hex())
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Junior", p.Experience[0].Title)
}

func TestEducationLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t)
	_, err := f.svc.Save(ctx, u.ID, models.ProfileRequest{Handle: "alice", Status: "Dev"})
	require.NoError(t, err)

	p, err := f.svc.AddEducation(ctx, u.ID, models.EducationRequest{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01T00:00:00Z", To: "2018-06-01",
	})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)

	p, err = f.svc.RemoveEducation(ctx, u.ID, p.Education[0].ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, p.Education)
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, other := f.user(t), f.user(t)

	_, err := f.svc.Save(ctx, u.ID, models.ProfileRequest{Handle: "alice", Status: "Dev"})
	require.NoError(t, err)
	require.NoError(t, f.posts.Create(ctx, &models.Post{UserID: u.ID, Text: "mine to delete"}))
	require.NoError(t, f.posts.Create(ctx, &models.Post{UserID: other.ID, Text: "someone else's"}))

	require.NoError(t, f.svc.DeleteAccount(ctx, &auth.Claims{ID: u.ID}))

	_, err = f.profiles.GetByUser(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.users.GetUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	posts, err := f.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, other.ID, posts[0].UserID)
	assert.Equal(t, []string{u.ID}, f.accounts.avatarsRemoved)
	assert.Equal(t, []string{u.ID}, f.accounts.revoked)
}
