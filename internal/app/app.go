package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/otion-app/otion/internal/config"
	"github.com/otion-app/otion/internal/db"
	"github.com/otion-app/otion/internal/llm"
	"github.com/otion-app/otion/internal/middleware"
	"github.com/otion-app/otion/internal/repository"
	"github.com/otion-app/otion/internal/service"
	"github.com/otion-app/otion/internal/storage"
	"github.com/otion-app/otion/internal/weather"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Redis           *redis.Client // nil when REDIS_URL is unset or unreachable
	Weather         *weather.Client
	AuthService     *service.AuthService
	PostService     *service.PostService
	ReactionService *service.ReactionService
	WardrobeService *service.WardrobeService
	StylistService  *service.StylistService
	AuthLimiter     middleware.Limiter // shared by the sign-up and sign-in routes
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	postRepository := repository.NewPostRepository(database)
	reactionRepository := repository.NewReactionRepository(database)
	wardrobeRepository := repository.NewWardrobeRepository(database)

	// Storage
	imageStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	images := service.NewImageService(imageStorage)
	authService := service.NewAuthService(
		userRepository,
		sessionRepository,
		cfg.SecureCookies(),
		cfg.SessionExpiry,
	)

	var completer service.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = llm.NewClient(llm.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.UpstreamTimeout,
		})
	} else {
		slog.Warn("OPENAI_API_KEY not set, advice uses the built-in heuristic")
	}

	redisClient := connectRedis(ctx, cfg.RedisURL)

	// Auth endpoints are rate limited per IP, across instances when Redis is available
	var authLimiter middleware.Limiter
	if redisClient != nil {
		authLimiter = middleware.NewRedisRateLimiter(redisClient, "auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	} else {
		authLimiter = middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	a := &App{
		Cfg:   cfg,
		DB:    database,
		Redis: redisClient,
		Weather: weather.NewClient(weather.Config{
			APIKey:  cfg.WeatherAPIKey,
			BaseURL: cfg.WeatherBaseURL,
			Lang:    cfg.WeatherLang,
			Timeout: cfg.UpstreamTimeout,
		}),
		AuthService:     authService,
		PostService:     service.NewPostService(postRepository, images),
		ReactionService: service.NewReactionService(reactionRepository),
		WardrobeService: service.NewWardrobeService(wardrobeRepository, images),
		StylistService:  service.NewStylistService(completer, wardrobeRepository),
		AuthLimiter:     authLimiter,
	}

	// Sessions that expired without being looked up again
	deleted, err := authService.DeleteExpiredSessions(ctx)
	if err != nil {
		slog.Warn("failed to delete expired sessions", "error", err)
	} else if deleted > 0 {
		slog.Info("deleted expired sessions", "count", deleted)
	}

	return a, nil
}

// connectRedis returns nil when url is empty or the server does not answer,
// in which case rate limiting stays in-process.
func connectRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("invalid REDIS_URL, continuing without redis", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		slog.Warn("redis connection failed, continuing without redis", "error", err)
		_ = client.Close()
		return nil
	}

	slog.Info("redis connected", "addr", opts.Addr)
	return client
}

func (a *App) Close() error {
	if stopper, ok := a.AuthLimiter.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
