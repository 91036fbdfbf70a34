package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gymbuddy/gymbuddy/internal/models"
)

const (
	// Key prefixes for Redis
	userKeyPrefix  = "user:"
	emailKeyPrefix = "user_email:"
	tokenKeyPrefix = "auth_token:"
)

// ErrUserNotFound is returned when a user is not found
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when another user already claimed the email
var ErrEmailTaken = errors.New("email already registered")

// ErrTokenNotFound is returned when an auth token is unknown or revoked
var ErrTokenNotFound = errors.New("auth token not found")

// Config holds configuration for the Redis user repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed user repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveUser persists a user to Redis. The email index entry is claimed with
// SETNX so two concurrent registrations for the same address cannot both
// succeed.
func (r *redisRepository) SaveUser(ctx context.Context, input *SaveUserInput) error {
	if input == nil || input.User == nil {
		return errors.New("input and user cannot be nil")
	}

	emailKey := fmt.Sprintf("%s%s", emailKeyPrefix, input.User.Email)
	claimed, err := r.client.SetNX(ctx, emailKey, input.User.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}

	if !claimed {
		owner, err := r.client.Get(ctx, emailKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check email owner: %w", err)
		}
		if owner != input.User.ID {
			return ErrEmailTaken
		}
	}

	// Marshal the user to JSON
	userJSON, err := json.Marshal(input.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	// Save the user
	userKey := fmt.Sprintf("%s%s", userKeyPrefix, input.User.ID)
	if err := r.client.Set(ctx, userKey, userJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID from Redis
func (r *redisRepository) GetUser(ctx context.Context, input *GetUserInput) (*models.User, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	userKey := fmt.Sprintf("%s%s", userKeyPrefix, input.UserID)
	userJSON, err := r.client.Get(ctx, userKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Unmarshal the user from JSON
	var u models.User
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &u, nil
}

// GetUserByEmail retrieves a user by email address from Redis
func (r *redisRepository) GetUserByEmail(ctx context.Context, input *GetUserByEmailInput) (*models.User, error) {
	if input == nil || input.Email == "" {
		return nil, errors.New("input and email cannot be empty")
	}

	// Look up the user ID through the email index
	emailKey := fmt.Sprintf("%s%s", emailKeyPrefix, input.Email)
	userID, err := r.client.Get(ctx, emailKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user ID for email: %w", err)
	}

	return r.GetUser(ctx, &GetUserInput{
		UserID: userID,
	})
}

// SaveToken records an issued auth token with a TTL matching its expiry
func (r *redisRepository) SaveToken(ctx context.Context, input *SaveTokenInput) error {
	if input == nil || input.TokenID == "" || input.UserID == "" {
		return errors.New("input, token ID and user ID cannot be empty")
	}

	tokenKey := fmt.Sprintf("%s%s", tokenKeyPrefix, input.TokenID)
	if err := r.client.Set(ctx, tokenKey, input.UserID, input.TTL).Err(); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// GetToken looks up the user ID an auth token was issued for
func (r *redisRepository) GetToken(ctx context.Context, input *GetTokenInput) (*GetTokenOutput, error) {
	if input == nil || input.TokenID == "" {
		return nil, errors.New("input and token ID cannot be empty")
	}

	tokenKey := fmt.Sprintf("%s%s", tokenKeyPrefix, input.TokenID)
	userID, err := r.client.Get(ctx, tokenKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &GetTokenOutput{
		UserID: userID,
	}, nil
}

// DeleteToken revokes an auth token. Deleting an already revoked token is
// not an error.
func (r *redisRepository) DeleteToken(ctx context.Context, input *DeleteTokenInput) error {
	if input == nil || input.TokenID == "" {
		return errors.New("input and token ID cannot be empty")
	}

	tokenKey := fmt.Sprintf("%s%s", tokenKeyPrefix, input.TokenID)
	if err := r.client.Del(ctx, tokenKey).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}
