package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/config"
	"github.com/Guyuepp/artshare/internal/repository"
	"github.com/Guyuepp/artshare/internal/repository/cache"
	mysqlRepo "github.com/Guyuepp/artshare/internal/repository/mysql"
	myRedisCache "github.com/Guyuepp/artshare/internal/repository/redis"
	backend "github.com/Guyuepp/artshare/internal/repository/rest"
	"github.com/Guyuepp/artshare/internal/rest"
	"github.com/Guyuepp/artshare/internal/rest/middleware"
	"github.com/Guyuepp/artshare/internal/usecase/comment"
	"github.com/Guyuepp/artshare/internal/usecase/feed"
	"github.com/Guyuepp/artshare/internal/usecase/follow"
	"github.com/Guyuepp/artshare/internal/usecase/interaction"
	"github.com/Guyuepp/artshare/internal/usecase/notification"
	"github.com/Guyuepp/artshare/internal/workers"
)

const (
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
	shutdownTimeout    = 5 * time.Second
)

// repos is one backend, reached either over HTTP or through its database.
type repos struct {
	images        domain.ImageRepository
	counters      domain.CounterRPC
	likes         domain.LikeRepository
	favorites     domain.FavoriteRepository
	comments      domain.CommentRepository
	follows       domain.FollowRepository
	profiles      domain.ProfileRepository
	notifications domain.NotificationRepository
	storage       domain.ObjectStorage
	auth          domain.AuthService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var client *backend.Client
	if cfg.BackendURL != "" {
		client = backend.NewClient(backend.Config{
			BaseURL: cfg.BackendURL,
			AnonKey: cfg.BackendAnonKey,
			Bucket:  cfg.StorageBucket,
			RPS:     cfg.BackendRPS,
			Timeout: cfg.ContextTimeout,
		})
	}

	var r repos
	switch cfg.BackendDriver {
	case config.DriverMySQL:
		db := openDatabase(cfg)
		defer func() {
			sqlDB, err := db.DB()
			if err != nil {
				logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
				return
			}
			if err := sqlDB.Close(); err != nil {
				logrus.Errorf("got error when closing the DB connection: %v", err)
			}
		}()
		r = mysqlRepos(db)
		if client != nil {
			// 数据库直连时，存储和登录仍走后端的 HTTP 接口
			r.storage = backend.NewStorage(client)
			r.auth = backend.NewAuthService(client)
		}
	default:
		r = restRepos(client)
	}

	// prepare cache
	var followCache domain.FollowCache
	switch cfg.CacheDriver {
	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.CacheHost + ":" + cfg.CachePort,
			Password: cfg.CachePass,
			DB:       cfg.CacheDB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				logrus.Errorf("got error when closing the cache connection: %v", err)
			}
		}()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("failed to open connection to cache: %v", err)
		}
		followCache = myRedisCache.NewFollowCache(rdb, cfg.FollowCacheTTL)
	default:
		followCache = cache.NewFollowCache(cfg.FollowCacheTTL)
	}

	// Image 读取经过协调层，补齐作者资料
	imageRepo := repository.NewImageRepository(r.images, r.profiles, r.storage)

	// Start worker
	viewsSyncer := workers.NewSyncViewsWorker(r.counters)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		viewsSyncer.Start(ctx)
	}()

	// Build service Layer
	notifySvc := notification.NewService(r.notifications)
	interactionSvc := interaction.NewService(r.likes, r.favorites, r.counters, imageRepo, viewsSyncer, notifySvc)
	commentSvc := comment.NewService(r.comments, notifySvc)
	followSvc := follow.NewClient(r.follows, followCache, notifySvc)
	feedSvc := feed.NewService(imageRepo, cfg.FeedPageSize)

	handlers := rest.Handlers{
		Image:        rest.NewImageHandler(imageRepo, interactionSvc),
		Comment:      rest.NewCommentHandler(imageRepo, commentSvc),
		Follow:       rest.NewFollowHandler(followSvc),
		Feed:         rest.NewFeedHandler(feedSvc),
		Notification: rest.NewNotificationHandler(notifySvc),
	}
	if r.storage != nil {
		handlers.Storage = rest.NewStorageHandler(r.storage)
	}
	if r.auth != nil {
		handlers.Auth = rest.NewAuthHandler(r.auth)
	} else {
		logrus.Warn("BACKEND_URL is not set, auth routes are disabled")
	}

	go handlers.SweepIdle(ctx, rest.SweepInterval)

	// prepare gin
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	route := gin.Default()
	route.Use(middleware.CORS(cfg.AllowedOrigins...))
	route.Use(middleware.SetRequestContextWithTimeout(cfg.ContextTimeout))
	if cfg.BackendJWTSecret == "" {
		logrus.Warn("BACKEND_JWT_SECRET is not set, bearer tokens are not verified locally")
	}
	route.Use(middleware.AuthMiddleware([]byte(cfg.BackendJWTSecret)))
	rest.RegisterRoutes(route, handlers)

	// Start Server
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s (backend: %s, cache: %s)", cfg.ServerAddress, cfg.BackendDriver, cfg.CacheDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Waiting for worker to flush views...")
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logrus.Warn("view worker did not stop in time")
	}

	logrus.Info("Server exiting")
}

func setupLogger(cfg config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func openDatabase(cfg config.Config) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)
	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, derr := db.DB()
			if derr == nil {
				if err = sqlDB.Ping(); err == nil {
					return db
				}
				_ = sqlDB.Close()
			} else {
				err = derr
			}
			logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		}
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	logrus.Fatalf("could not connect to database after retries: %v", err)
	return nil
}

func mysqlRepos(db *gorm.DB) repos {
	images := mysqlRepo.NewImageRepository(db)
	return repos{
		images:        images,
		counters:      images,
		likes:         mysqlRepo.NewLikeRepository(db),
		favorites:     mysqlRepo.NewFavoriteRepository(db),
		comments:      mysqlRepo.NewCommentRepository(db),
		follows:       mysqlRepo.NewFollowRepository(db),
		profiles:      mysqlRepo.NewProfileRepository(db),
		notifications: mysqlRepo.NewNotificationRepository(db),
	}
}

func restRepos(client *backend.Client) repos {
	images := backend.NewImageRepository(client)
	return repos{
		images:        images,
		counters:      images,
		likes:         backend.NewLikeRepository(client),
		favorites:     backend.NewFavoriteRepository(client),
		comments:      backend.NewCommentRepository(client),
		follows:       backend.NewFollowRepository(client),
		profiles:      backend.NewProfileRepository(client),
		notifications: backend.NewNotificationRepository(client),
		storage:       backend.NewStorage(client),
		auth:          backend.NewAuthService(client),
	}
}
