// Package server assembles the HTTP router from the stores.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/httpjson"
	"github.com/ayush/devconnector/backend/internal/middleware"
	"github.com/ayush/devconnector/backend/internal/post"
	"github.com/ayush/devconnector/backend/internal/profile"
)

// UserStore is satisfied by every user store implementation.
type UserStore interface {
	auth.UserStore
	profile.UserStore
}

// PostStore is satisfied by every post store implementation.
type PostStore interface {
	post.PostStore
	profile.PostStore
}

// Stores bundles the persistence backends. Avatars may be nil.
type Stores struct {
	Users    UserStore
	Profiles profile.ProfileStore
	Posts    PostStore
	Revoker  auth.Revoker
	Avatars  auth.AvatarStore
}

// Options carries the non-storage dependencies of the router.
type Options struct {
	Log      *zap.Logger
	Tokens   *auth.Tokens
	Origins  []string
	Registry *prometheus.Registry
}

// New builds the API router.
func New(s Stores, o Options) http.Handler {
	authSvc := auth.NewService(s.Users, o.Tokens, s.Revoker, s.Avatars)
	authHandler := auth.NewHandler(authSvc, o.Log)
	profileHandler := profile.NewHandler(profile.NewService(s.Profiles, s.Users, s.Posts, authSvc), o.Log)
	postHandler := post.NewHandler(post.NewService(s.Posts), o.Log)

	requireAuth := middleware.RequireAuth(authSvc, o.Log)
	metrics := middleware.NewMetrics(o.Registry)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(o.Log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   o.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.Handle("/metrics", promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{}))

	// User routes
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/avatar/{user_id}", authHandler.Avatar)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/current", authHandler.Current)
			r.Post("/logout", authHandler.Logout)
			r.Post("/avatar", authHandler.UploadAvatar)
		})
	})

	// Profile routes
	r.Route("/api/profile", func(r chi.Router) {
		r.Get("/all", profileHandler.All)
		r.Get("/handle/{handle}", profileHandler.ByHandle)
		r.Get("/user/{user_id}", profileHandler.ByUser)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", profileHandler.Current)
			r.Post("/", profileHandler.Save)
			r.Delete("/", profileHandler.Delete)
			r.Post("/experience", profileHandler.AddExperience)
			r.Post("/education", profileHandler.AddEducation)
			r.Delete("/experience/{exp_id}", profileHandler.RemoveExperience)
			r.Delete("/education/{edu_id}", profileHandler.RemoveEducation)
		})
	})

	// Post routes
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)
		r.Get("/{id}", postHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.Create)
			r.Delete("/{id}", postHandler.Delete)
			r.Post("/like/{id}", postHandler.Like)
			r.Post("/unlike/{id}", postHandler.Unlike)
			r.Post("/comment/{id}", postHandler.Comment)
			r.Delete("/comment/{id}/{comment_id}", postHandler.RemoveComment)
		})
	})

	return r
}
