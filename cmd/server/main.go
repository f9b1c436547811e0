package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/config"
	"github.com/ayush/devconnector/backend/internal/logger"
	"github.com/ayush/devconnector/backend/internal/server"
	"github.com/ayush/devconnector/backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(logger.Config{
		Environment: cfg.Env,
		LogLevel:    cfg.LogLevel,
		ServiceName: "devconnector-api",
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()
	var stores server.Stores

	// ── Documents ────────────────────────────────────────────
	switch cfg.StoreDriver {
	case "memory":
		lg.Warn("using in-memory store; data is lost on restart")
		stores.Users = store.NewMemoryUsers()
		stores.Profiles = store.NewMemoryProfiles()
		stores.Posts = store.NewMemoryPosts()
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err == nil {
			err = mongoClient.Ping(connectCtx, nil)
		}
		cancel()
		if err != nil {
			lg.Fatal("mongo connect", zap.Error(err))
		}
		defer mongoClient.Disconnect(ctx)

		mongoDB := mongoClient.Database(cfg.MongoDB)
		if err := store.EnsureIndexes(ctx, mongoDB); err != nil {
			lg.Fatal("mongo indexes", zap.Error(err))
		}
		stores.Users = store.NewMongoUsers(mongoDB)
		stores.Profiles = store.NewMongoProfiles(mongoDB)
		stores.Posts = store.NewMongoPosts(mongoDB)
	}

	// ── PostgreSQL (optional user store) ─────────────────────
	if cfg.PostgresDSN != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			lg.Fatal("postgres connect", zap.Error(err))
		}
		defer pgPool.Close()
		pgUsers := store.NewPostgresUsers(pgPool)
		if err := pgUsers.Migrate(ctx); err != nil {
			lg.Fatal("postgres migrate", zap.Error(err))
		}
		stores.Users = pgUsers
		lg.Info("users stored in postgres")
	}

	// ── Redis (token revocation) ─────────────────────────────
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			lg.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		stores.Revoker = auth.NewRedisRevoker(rdb)
	} else {
		lg.Warn("REDIS_ADDR not set; token revocation is process-local")
		stores.Revoker = auth.NewMemoryRevoker()
	}

	// ── MinIO (avatars) ──────────────────────────────────────
	if cfg.MinioEndpoint != "" {
		avatars, err := store.NewAvatarStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			lg.Fatal("minio connect", zap.Error(err))
		}
		stores.Avatars = avatars
	} else {
		lg.Info("MINIO_ENDPOINT not set; avatar uploads disabled")
	}

	// ── Router ───────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := server.New(stores, server.Options{
		Log:      lg,
		Tokens:   auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Origins:  cfg.Origins(),
		Registry: reg,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		lg.Info("server listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		lg.Error("shutdown", zap.Error(err))
	}
}
