package user

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/gymbuddy/gymbuddy/internal/repositories/user Repository

import (
	"context"

	"github.com/gymbuddy/gymbuddy/internal/models"
)

// Repository defines the interface for user data persistence
type Repository interface {
	// SaveUser persists a user, claiming their email address
	SaveUser(ctx context.Context, input *SaveUserInput) error

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, input *GetUserInput) (*models.User, error)

	// GetUserByEmail retrieves a user by email address
	GetUserByEmail(ctx context.Context, input *GetUserByEmailInput) (*models.User, error)

	// SaveToken records an issued auth token so it can be revoked later
	SaveToken(ctx context.Context, input *SaveTokenInput) error

	// GetToken looks up the user ID an auth token was issued for
	GetToken(ctx context.Context, input *GetTokenInput) (*GetTokenOutput, error)

	// DeleteToken revokes an auth token
	DeleteToken(ctx context.Context, input *DeleteTokenInput) error
}
