package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/gymbuddy/gymbuddy/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	// Set up test time
	s.testNow = time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newTestUser() *models.User {
	return &models.User{
		ID:           "test-user-id",
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: []byte("$2a$10$fakefakefakefakefakefa"),
		ProfilePic:   "https://example.com/avatar.png",
		CreatedAt:    s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetUser() {
	u := s.newTestUser()

	err := s.repo.SaveUser(context.Background(), &SaveUserInput{
		User: u,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetUser(context.Background(), &GetUserInput{
		UserID: "test-user-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-user-id", retrieved.ID)
	s.Equal("Test User", retrieved.Name)
	s.Equal("test@example.com", retrieved.Email)
	s.Equal(u.PasswordHash, retrieved.PasswordHash)
	s.Equal("https://example.com/avatar.png", retrieved.ProfilePic)
}

func (s *RedisRepositoryTestSuite) TestGetUser_NotFound() {
	_, err := s.repo.GetUser(context.Background(), &GetUserInput{
		UserID: "missing-user-id",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrUserNotFound))
}

func (s *RedisRepositoryTestSuite) TestGetUserByEmail() {
	u := s.newTestUser()
	s.Require().NoError(s.repo.SaveUser(context.Background(), &SaveUserInput{User: u}))

	retrieved, err := s.repo.GetUserByEmail(context.Background(), &GetUserByEmailInput{
		Email: "test@example.com",
	})
	s.Require().NoError(err)
	s.Equal("test-user-id", retrieved.ID)

	_, err = s.repo.GetUserByEmail(context.Background(), &GetUserByEmailInput{
		Email: "nobody@example.com",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrUserNotFound))
}

func (s *RedisRepositoryTestSuite) TestSaveUser_EmailTaken() {
	u := s.newTestUser()
	s.Require().NoError(s.repo.SaveUser(context.Background(), &SaveUserInput{User: u}))

	// A different user claiming the same email is refused
	other := s.newTestUser()
	other.ID = "other-user-id"
	err := s.repo.SaveUser(context.Background(), &SaveUserInput{User: other})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrEmailTaken))

	// The same user re-saving their record is fine
	u.Name = "Renamed User"
	s.Require().NoError(s.repo.SaveUser(context.Background(), &SaveUserInput{User: u}))

	retrieved, err := s.repo.GetUser(context.Background(), &GetUserInput{UserID: u.ID})
	s.Require().NoError(err)
	s.Equal("Renamed User", retrieved.Name)
}

func (s *RedisRepositoryTestSuite) TestTokenLifecycle() {
	err := s.repo.SaveToken(context.Background(), &SaveTokenInput{
		TokenID: "test-token-id",
		UserID:  "test-user-id",
		TTL:     time.Hour,
	})
	s.Require().NoError(err)

	output, err := s.repo.GetToken(context.Background(), &GetTokenInput{
		TokenID: "test-token-id",
	})
	s.Require().NoError(err)
	s.Equal("test-user-id", output.UserID)

	err = s.repo.DeleteToken(context.Background(), &DeleteTokenInput{
		TokenID: "test-token-id",
	})
	s.Require().NoError(err)

	_, err = s.repo.GetToken(context.Background(), &GetTokenInput{
		TokenID: "test-token-id",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrTokenNotFound))

	// Revoking twice is harmless
	s.Require().NoError(s.repo.DeleteToken(context.Background(), &DeleteTokenInput{
		TokenID: "test-token-id",
	}))
}

func (s *RedisRepositoryTestSuite) TestTokenExpiry() {
	err := s.repo.SaveToken(context.Background(), &SaveTokenInput{
		TokenID: "short-lived-token",
		UserID:  "test-user-id",
		TTL:     time.Minute,
	})
	s.Require().NoError(err)

	// Advance miniredis past the TTL
	s.mr.FastForward(2 * time.Minute)

	_, err = s.repo.GetToken(context.Background(), &GetTokenInput{
		TokenID: "short-lived-token",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrTokenNotFound))
}
