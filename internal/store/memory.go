package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/models"
)

// The memory stores back STORE_DRIVER=memory and the handler tests. Each
// mutation runs under the store's lock, which gives the same per-document
// atomicity as the Mongo update operators.

// MemoryUsers is an in-process user store.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: map[string]models.User{}}
}

func (s *MemoryUsers) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID().Hex()
	if u.Date.IsZero() {
		u.Date = time.Now().UTC()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUsers) GetUsersByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (s *MemoryUsers) UpdateAvatar(_ context.Context, id, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Avatar = avatar
	s.users[id] = u
	return nil
}

func (s *MemoryUsers) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}

// MemoryProfiles is an in-process profile store keyed by owning user.
type MemoryProfiles struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{profiles: map[string]models.Profile{}}
}

func cloneProfile(p models.Profile) *models.Profile {
	p.Skills = slices.Clone(p.Skills)
	p.Experience = slices.Clone(p.Experience)
	p.Education = slices.Clone(p.Education)
	return &p
}

func (s *MemoryProfiles) GetByUser(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProfile(p), nil
}

func (s *MemoryProfiles) GetByHandle(_ context.Context, handle string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.Handle == handle {
			return cloneProfile(p), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryProfiles) List(_ context.Context) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out, nil
}

func (s *MemoryProfiles) HandleTaken(_ context.Context, handle, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.handleTakenLocked(handle, userID), nil
}

func (s *MemoryProfiles) handleTakenLocked(handle, userID string) bool {
	for owner, p := range s.profiles {
		if p.Handle == handle && owner != userID {
			return true
		}
	}
	return false
}

func (s *MemoryProfiles) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.UserID]; ok || s.handleTakenLocked(p.Handle, p.UserID) {
		return ErrDuplicate
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	s.profiles[p.UserID] = *cloneProfile(*p)
	return nil
}

func (s *MemoryProfiles) Update(_ context.Context, userID string, req models.ProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Handle != "" && s.handleTakenLocked(req.Handle, userID) {
		return nil, ErrDuplicate
	}
	applyProfile(&p, req)
	s.profiles[userID] = p
	return cloneProfile(p), nil
}

// applyProfile mirrors profileSet for the memory store.
func applyProfile(p *models.Profile, req models.ProfileRequest) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Handle, req.Handle)
	set(&p.Company, req.Company)
	set(&p.Website, req.Website)
	set(&p.Location, req.Location)
	set(&p.Bio, req.Bio)
	set(&p.Status, req.Status)
	set(&p.GitHubUsername, req.GitHubUsername)
	set(&p.Social.YouTube, req.YouTube)
	set(&p.Social.Twitter, req.Twitter)
	set(&p.Social.Facebook, req.Facebook)
	set(&p.Social.LinkedIn, req.LinkedIn)
	set(&p.Social.Instagram, req.Instagram)
	if req.Skills != nil {
		p.Skills = slices.Clone([]string(req.Skills))
	}
}

func (s *MemoryProfiles) mutate(userID string, fn func(p *models.Profile)) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	fn(&p)
	s.profiles[userID] = p
	return cloneProfile(p), nil
}

func (s *MemoryProfiles) PushExperience(_ context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return s.mutate(userID, func(p *models.Profile) {
		p.Experience = prepend(p.Experience, exp)
	})
}

func (s *MemoryProfiles) PushEducation(_ context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return s.mutate(userID, func(p *models.Profile) {
		p.Education = prepend(p.Education, edu)
	})
}

func (s *MemoryProfiles) PullExperience(_ context.Context, userID, expID string) (*models.Profile, error) {
	return s.mutate(userID, func(p *models.Profile) {
		i := slices.IndexFunc(p.Experience, func(e models.Experience) bool { return e.ID.Hex() == expID })
		p.Experience = removeAt(p.Experience, i)
	})
}

func (s *MemoryProfiles) PullEducation(_ context.Context, userID, eduID string) (*models.Profile, error) {
	return s.mutate(userID, func(p *models.Profile) {
		i := slices.IndexFunc(p.Education, func(e models.Education) bool { return e.ID.Hex() == eduID })
		p.Education = removeAt(p.Education, i)
	})
}

func (s *MemoryProfiles) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, userID)
	return nil
}

// MemoryPosts is an in-process post store.
type MemoryPosts struct {
	mu    sync.RWMutex
	posts map[string]models.Post
}

func NewMemoryPosts() *MemoryPosts {
	return &MemoryPosts{posts: map[string]models.Post{}}
}

func clonePost(p models.Post) *models.Post {
	p.Likes = slices.Clone(p.Likes)
	p.Comments = slices.Clone(p.Comments)
	return &p
}

func (s *MemoryPosts) Create(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	s.posts[p.ID.Hex()] = *clonePost(*p)
	return nil
}

func (s *MemoryPosts) List(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *clonePost(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *MemoryPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePost(p), nil
}

func (s *MemoryPosts) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryPosts) DeleteByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, p := range s.posts {
		if p.UserID == userID {
			delete(s.posts, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryPosts) mutate(id string, fn func(p *models.Post) error) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	s.posts[id] = p
	return clonePost(p), nil
}

func (s *MemoryPosts) AddLike(_ context.Context, postID string, like models.Like) (*models.Post, error) {
	return s.mutate(postID, func(p *models.Post) error {
		if p.LikedBy(like.UserID) {
			return ErrAlreadyLiked
		}
		p.Likes = prepend(p.Likes, like)
		return nil
	})
}

func (s *MemoryPosts) RemoveLike(_ context.Context, postID, userID string) (*models.Post, error) {
	return s.mutate(postID, func(p *models.Post) error {
		i := slices.IndexFunc(p.Likes, func(l models.Like) bool { return l.UserID == userID })
		if i < 0 {
			return ErrNotLiked
		}
		p.Likes = removeAt(p.Likes, i)
		return nil
	})
}

func (s *MemoryPosts) AddComment(_ context.Context, postID string, c models.Comment) (*models.Post, error) {
	return s.mutate(postID, func(p *models.Post) error {
		p.Comments = prepend(p.Comments, c)
		return nil
	})
}

func (s *MemoryPosts) RemoveComment(_ context.Context, postID, commentID string) (*models.Post, error) {
	return s.mutate(postID, func(p *models.Post) error {
		i := slices.IndexFunc(p.Comments, func(c models.Comment) bool { return c.ID.Hex() == commentID })
		if i < 0 {
			return ErrCommentNotFound
		}
		p.Comments = removeAt(p.Comments, i)
		return nil
	})
}

func prepend[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

// removeAt drops the element at i; a negative index is a no-op.
func removeAt[T any](list []T, i int) []T {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
