package user

import (
	"time"

	"github.com/gymbuddy/gymbuddy/internal/models"
)

type SaveUserInput struct {
	User *models.User
}

type GetUserInput struct {
	UserID string
}

type GetUserByEmailInput struct {
	Email string
}

type SaveTokenInput struct {
	// TokenID is the JWT ID (jti) claim of the issued token
	TokenID string

	// UserID is the user the token was issued for
	UserID string

	// TTL is how long the token record lives; matches the token expiry
	TTL time.Duration
}

type GetTokenInput struct {
	TokenID string
}

type GetTokenOutput struct {
	UserID string
}

type DeleteTokenInput struct {
	TokenID string
}
