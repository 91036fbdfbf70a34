package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gymbuddy/gymbuddy/internal/common/clock"
	"github.com/gymbuddy/gymbuddy/internal/common/uuid"
	"github.com/gymbuddy/gymbuddy/internal/models"
	userRepo "github.com/gymbuddy/gymbuddy/internal/repositories/user"
)

// defaultAvatarURL is the generated avatar used when a registration carries
// no profile picture
const defaultAvatarURL = "https://api.dicebear.com/7.x/thumbs/svg?seed=%s"

// Config holds the dependencies for the identity service
type Config struct {
	// UserRepo persists accounts and token records
	UserRepo userRepo.Repository

	// Clock supplies the current time
	Clock clock.Clock

	// UUID generates user and token IDs
	UUID uuid.UUID

	// TokenSecret signs auth tokens
	TokenSecret string

	// TokenTTL is how long issued tokens stay valid; defaults to 30 days
	TokenTTL time.Duration
}

// service implements the Service interface
type service struct {
	userRepo    userRepo.Repository
	clock       clock.Clock
	uuid        uuid.UUID
	tokenSecret []byte
	tokenTTL    time.Duration

	mu        sync.Mutex
	observers []ObserverFunc
}

// New creates a new identity service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.UserRepo == nil {
		return nil, ErrNilUserRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}

	if cfg.TokenSecret == "" {
		return nil, ErrMissingTokenSecret
	}

	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}

	return &service{
		userRepo:    cfg.UserRepo,
		clock:       cfg.Clock,
		uuid:        cfg.UUID,
		tokenSecret: []byte(cfg.TokenSecret),
		tokenTTL:    tokenTTL,
	}, nil
}

// Register creates a new account
func (s *service) Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profilePic := strings.TrimSpace(input.ProfilePic)
	if profilePic == "" {
		profilePic = fmt.Sprintf(defaultAvatarURL, url.QueryEscape(name))
	}

	user := &models.User{
		ID:           s.uuid.NewUUID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		ProfilePic:   profilePic,
		CreatedAt:    s.clock.Now(),
	}

	err = s.userRepo.SaveUser(ctx, &userRepo.SaveUserInput{
		User: user,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return &RegisterOutput{
		User: user,
	}, nil
}

// Login checks credentials and issues a signed bearer token. The token ID is
// recorded so a later logout can revoke it.
func (s *service) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.GetUserByEmail(ctx, &userRepo.GetUserByEmailInput{
		Email: email,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	tokenID := s.uuid.NewUUID()

	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	err = s.userRepo.SaveToken(ctx, &userRepo.SaveTokenInput{
		TokenID: tokenID,
		UserID:  user.ID,
		TTL:     s.tokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	s.notify(user)

	return &LoginOutput{
		User:  user,
		Token: token,
	}, nil
}

// Logout revokes an auth token. The token is parsed without claim validation
// so an already expired token can still be logged out cleanly.
func (s *service) Logout(ctx context.Context, input *LogoutInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	claims, err := s.parseClaims(input.Token, jwt.WithoutClaimsValidation())
	if err != nil {
		return ErrInvalidToken
	}

	err = s.userRepo.DeleteToken(ctx, &userRepo.DeleteTokenInput{
		TokenID: claims.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	s.notify(nil)

	return nil
}

// CurrentUser resolves an auth token to the account it was issued for
func (s *service) CurrentUser(ctx context.Context, input *CurrentUserInput) (*models.User, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	claims, err := s.parseClaims(input.Token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// A valid signature is not enough: the token must not have been revoked
	record, err := s.userRepo.GetToken(ctx, &userRepo.GetTokenInput{
		TokenID: claims.ID,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	user, err := s.userRepo.GetUser(ctx, &userRepo.GetUserInput{
		UserID: record.UserID,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Subscribe registers an observer for login/logout changes
func (s *service) Subscribe(fn ObserverFunc) {
	if fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// notify fans the new current user out to every observer, each on its own
// goroutine
func (s *service) notify(user *models.User) {
	s.mu.Lock()
	observers := make([]ObserverFunc, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		go fn(user)
	}
}

// parseClaims verifies a token's signature and claims. Expiry is checked
// against the injected clock so time is controllable in tests.
func (s *service) parseClaims(token string, extra ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	opts := append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	}, extra...)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.tokenSecret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
