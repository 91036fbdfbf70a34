package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gymbuddy/gymbuddy/internal/common/clock"
	"github.com/gymbuddy/gymbuddy/internal/common/uuid"
	"github.com/gymbuddy/gymbuddy/internal/config"
	"github.com/gymbuddy/gymbuddy/internal/handlers/httpapi"
	"github.com/gymbuddy/gymbuddy/internal/logging"
	"github.com/gymbuddy/gymbuddy/internal/models"
	sessionRepo "github.com/gymbuddy/gymbuddy/internal/repositories/session"
	userRepo "github.com/gymbuddy/gymbuddy/internal/repositories/user"
	"github.com/gymbuddy/gymbuddy/internal/services/identity"
	"github.com/gymbuddy/gymbuddy/internal/services/scheduling"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLogger := logging.New("info")
		fallbackLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.LogLevel)

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Initialize repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session repository")
	}

	users, err := userRepo.NewRedis(&userRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user repository")
	}

	systemClock := &clock.DefaultClock{}
	idGenerator := uuid.New()

	// Initialize services
	schedulingSvc, err := scheduling.New(&scheduling.Config{
		SessionRepo: sessions,
		Clock:       systemClock,
		UUID:        idGenerator,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create scheduling service")
	}

	identitySvc, err := identity.New(&identity.Config{
		UserRepo:    users,
		Clock:       systemClock,
		UUID:        idGenerator,
		TokenSecret: cfg.TokenSecret,
		TokenTTL:    cfg.TokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create identity service")
	}

	// Log identity changes; the web client registers its own observer
	identitySvc.Subscribe(func(user *models.User) {
		if user != nil {
			logger.Debug().Str("user_id", user.ID).Msg("user logged in")
			return
		}
		logger.Debug().Msg("user logged out")
	})

	// Initialize the API handler
	handler, err := httpapi.New(&httpapi.Config{
		SchedulingService: schedulingSvc,
		IdentityService:   identitySvc,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create API handler")
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Routes(),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error shutting down server")
	}

	logger.Info().Msg("server has been shut down")
}
