package identity

import "github.com/gymbuddy/gymbuddy/internal/models"

type RegisterInput struct {
	// Name is the display name
	Name string

	// Email is the login identifier
	Email string

	// Password is the plaintext password, hashed before storage
	Password string

	// ProfilePic is an optional avatar URL; a generated avatar is used
	// when empty
	ProfilePic string
}

type RegisterOutput struct {
	User *models.User
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User *models.User

	// Token is the signed bearer token for subsequent requests
	Token string
}

type LogoutInput struct {
	Token string
}

type CurrentUserInput struct {
	Token string
}
