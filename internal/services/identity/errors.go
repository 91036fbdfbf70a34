package identity

// IdentityError is a custom error type for identity-related errors
type IdentityError string

// Error implements the error interface
func (e IdentityError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrValidation         IdentityError = "invalid input"
	ErrEmailTaken         IdentityError = "email already registered"
	ErrInvalidCredentials IdentityError = "invalid email or password"
	ErrInvalidToken       IdentityError = "invalid or expired token"
	ErrUserNotFound       IdentityError = "user not found"
	ErrNilConfig          IdentityError = "config cannot be nil"
	ErrNilUserRepo        IdentityError = "user repository cannot be nil"
	ErrNilClock           IdentityError = "clock cannot be nil"
	ErrNilUUID            IdentityError = "UUID generator cannot be nil"
	ErrMissingTokenSecret IdentityError = "token secret cannot be empty"
)
