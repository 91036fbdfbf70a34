package identity

import (
	"context"

	"github.com/gymbuddy/gymbuddy/internal/models"
)

// ObserverFunc receives the new current user after a login, or nil after a
// logout. Observers run on their own goroutine: delivery is asynchronous,
// at-least-once, and unordered.
type ObserverFunc func(*models.User)

// Service defines the interface for identity operations
type Service interface {
	// Register creates a new account
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login checks credentials and issues an auth token
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Logout revokes an auth token; revoking an unknown token is not an error
	Logout(ctx context.Context, input *LogoutInput) error

	// CurrentUser resolves an auth token to the account it was issued for
	CurrentUser(ctx context.Context, input *CurrentUserInput) (*models.User, error)

	// Subscribe registers an observer for login/logout changes
	Subscribe(fn ObserverFunc)
}
