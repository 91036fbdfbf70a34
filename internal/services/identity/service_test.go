package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	clockMocks "github.com/gymbuddy/gymbuddy/internal/common/clock/mocks"
	uuidMocks "github.com/gymbuddy/gymbuddy/internal/common/uuid/mocks"
	"github.com/gymbuddy/gymbuddy/internal/models"
	userRepo "github.com/gymbuddy/gymbuddy/internal/repositories/user"
	userMocks "github.com/gymbuddy/gymbuddy/internal/repositories/user/mocks"
)

const testTokenSecret = "test-token-secret"

type IdentityServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUserRepo *userMocks.MockRepository
	mockClock    *clockMocks.MockClock
	mockUUID     *uuidMocks.MockUUID
	service      Service
	ctx          context.Context

	// Test data
	testTime     time.Time
	testPassword string
	testUser     *models.User
}

func (s *IdentityServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUserRepo = userMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()

	// Initialize test data
	s.testTime = time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	s.testPassword = "correct-horse-battery"

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(s.testPassword), bcrypt.MinCost)
	s.Require().NoError(err)

	s.testUser = &models.User{
		ID:           "test-user-id",
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: passwordHash,
		ProfilePic:   "https://example.com/avatar.png",
		CreatedAt:    s.testTime.Add(-30 * 24 * time.Hour),
	}

	// Set up the clock mock to return our test time
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	svc, err := New(&Config{
		UserRepo:    s.mockUserRepo,
		Clock:       s.mockClock,
		UUID:        s.mockUUID,
		TokenSecret: testTokenSecret,
		TokenTTL:    time.Hour,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *IdentityServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestIdentityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceTestSuite))
}

func (s *IdentityServiceTestSuite) TestNew_MissingDependencies() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{Clock: s.mockClock, UUID: s.mockUUID, TokenSecret: testTokenSecret})
	s.ErrorIs(err, ErrNilUserRepo)

	_, err = New(&Config{UserRepo: s.mockUserRepo, UUID: s.mockUUID, TokenSecret: testTokenSecret})
	s.ErrorIs(err, ErrNilClock)

	_, err = New(&Config{UserRepo: s.mockUserRepo, Clock: s.mockClock, TokenSecret: testTokenSecret})
	s.ErrorIs(err, ErrNilUUID)

	_, err = New(&Config{UserRepo: s.mockUserRepo, Clock: s.mockClock, UUID: s.mockUUID})
	s.ErrorIs(err, ErrMissingTokenSecret)
}

func (s *IdentityServiceTestSuite) TestRegister_HappyPath() {
	s.mockUUID.EXPECT().NewUUID().Return("new-user-id")

	var saved *models.User
	s.mockUserRepo.EXPECT().
		SaveUser(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *userRepo.SaveUserInput) error {
			saved = input.User
			return nil
		})

	output, err := s.service.Register(s.ctx, &RegisterInput{
		Name:     "  New User ",
		Email:    "New.User@Example.com",
		Password: "hunter2hunter2",
	})
	s.Require().NoError(err)

	s.Equal("new-user-id", output.User.ID)
	s.Equal("New User", output.User.Name)
	s.Equal("new.user@example.com", output.User.Email)
	s.True(output.User.CreatedAt.Equal(s.testTime))

	// The password is stored hashed, never verbatim
	s.NotContains(string(saved.PasswordHash), "hunter2hunter2")
	s.NoError(bcrypt.CompareHashAndPassword(saved.PasswordHash, []byte("hunter2hunter2")))

	// No avatar supplied: a generated one is filled in
	s.Equal("https://api.dicebear.com/7.x/thumbs/svg?seed=New+User", output.User.ProfilePic)
}

func (s *IdentityServiceTestSuite) TestRegister_KeepsSuppliedAvatar() {
	s.mockUUID.EXPECT().NewUUID().Return("new-user-id")
	s.mockUserRepo.EXPECT().SaveUser(s.ctx, gomock.Any()).Return(nil)

	output, err := s.service.Register(s.ctx, &RegisterInput{
		Name:       "New User",
		Email:      "new@example.com",
		Password:   "hunter2hunter2",
		ProfilePic: "https://example.com/me.png",
	})
	s.Require().NoError(err)
	s.Equal("https://example.com/me.png", output.User.ProfilePic)
}

func (s *IdentityServiceTestSuite) TestRegister_MissingFields() {
	cases := []*RegisterInput{
		{Name: "", Email: "new@example.com", Password: "hunter2hunter2"},
		{Name: "New User", Email: "   ", Password: "hunter2hunter2"},
		{Name: "New User", Email: "new@example.com", Password: ""},
	}

	for _, input := range cases {
		_, err := s.service.Register(s.ctx, input)
		s.Require().Error(err)
		s.ErrorIs(err, ErrValidation)
	}
}

func (s *IdentityServiceTestSuite) TestRegister_EmailTaken() {
	s.mockUUID.EXPECT().NewUUID().Return("new-user-id")
	s.mockUserRepo.EXPECT().
		SaveUser(s.ctx, gomock.Any()).
		Return(userRepo.ErrEmailTaken)

	_, err := s.service.Register(s.ctx, &RegisterInput{
		Name:     "New User",
		Email:    "test@example.com",
		Password: "hunter2hunter2",
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *IdentityServiceTestSuite) TestLoginAndCurrentUser() {
	s.mockUserRepo.EXPECT().
		GetUserByEmail(s.ctx, &userRepo.GetUserByEmailInput{Email: "test@example.com"}).
		Return(s.testUser, nil)
	s.mockUUID.EXPECT().NewUUID().Return("test-token-id")
	s.mockUserRepo.EXPECT().
		SaveToken(s.ctx, &userRepo.SaveTokenInput{
			TokenID: "test-token-id",
			UserID:  "test-user-id",
			TTL:     time.Hour,
		}).
		Return(nil)

	output, err := s.service.Login(s.ctx, &LoginInput{
		Email:    "Test@Example.com",
		Password: s.testPassword,
	})
	s.Require().NoError(err)
	s.Equal(s.testUser, output.User)
	s.NotEmpty(output.Token)

	// The issued token resolves back to the same account
	s.mockUserRepo.EXPECT().
		GetToken(s.ctx, &userRepo.GetTokenInput{TokenID: "test-token-id"}).
		Return(&userRepo.GetTokenOutput{UserID: "test-user-id"}, nil)
	s.mockUserRepo.EXPECT().
		GetUser(s.ctx, &userRepo.GetUserInput{UserID: "test-user-id"}).
		Return(s.testUser, nil)

	current, err := s.service.CurrentUser(s.ctx, &CurrentUserInput{Token: output.Token})
	s.Require().NoError(err)
	s.Equal(s.testUser, current)
}

func (s *IdentityServiceTestSuite) TestLogin_WrongPassword() {
	s.mockUserRepo.EXPECT().
		GetUserByEmail(s.ctx, gomock.Any()).
		Return(s.testUser, nil)

	_, err := s.service.Login(s.ctx, &LoginInput{
		Email:    "test@example.com",
		Password: "not-the-password",
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *IdentityServiceTestSuite) TestLogin_UnknownEmail() {
	s.mockUserRepo.EXPECT().
		GetUserByEmail(s.ctx, gomock.Any()).
		Return(nil, userRepo.ErrUserNotFound)

	_, err := s.service.Login(s.ctx, &LoginInput{
		Email:    "nobody@example.com",
		Password: s.testPassword,
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *IdentityServiceTestSuite) TestCurrentUser_GarbageToken() {
	_, err := s.service.CurrentUser(s.ctx, &CurrentUserInput{Token: "not-a-token"})
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *IdentityServiceTestSuite) TestCurrentUser_RevokedToken() {
	token := s.signToken("revoked-token-id", s.testTime.Add(time.Hour))

	s.mockUserRepo.EXPECT().
		GetToken(s.ctx, &userRepo.GetTokenInput{TokenID: "revoked-token-id"}).
		Return(nil, userRepo.ErrTokenNotFound)

	_, err := s.service.CurrentUser(s.ctx, &CurrentUserInput{Token: token})
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *IdentityServiceTestSuite) TestCurrentUser_ExpiredToken() {
	token := s.signToken("expired-token-id", s.testTime.Add(-time.Minute))

	_, err := s.service.CurrentUser(s.ctx, &CurrentUserInput{Token: token})
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *IdentityServiceTestSuite) TestLogout() {
	token := s.signToken("test-token-id", s.testTime.Add(time.Hour))

	s.mockUserRepo.EXPECT().
		DeleteToken(s.ctx, &userRepo.DeleteTokenInput{TokenID: "test-token-id"}).
		Return(nil)

	s.Require().NoError(s.service.Logout(s.ctx, &LogoutInput{Token: token}))
}

func (s *IdentityServiceTestSuite) TestLogout_ExpiredTokenStillRevocable() {
	token := s.signToken("expired-token-id", s.testTime.Add(-time.Minute))

	s.mockUserRepo.EXPECT().
		DeleteToken(s.ctx, &userRepo.DeleteTokenInput{TokenID: "expired-token-id"}).
		Return(nil)

	s.Require().NoError(s.service.Logout(s.ctx, &LogoutInput{Token: token}))
}

func (s *IdentityServiceTestSuite) TestObserversSeeLoginAndLogout() {
	changes := make(chan *models.User, 2)
	s.service.Subscribe(func(u *models.User) {
		changes <- u
	})

	s.mockUserRepo.EXPECT().GetUserByEmail(s.ctx, gomock.Any()).Return(s.testUser, nil)
	s.mockUUID.EXPECT().NewUUID().Return("test-token-id")
	s.mockUserRepo.EXPECT().SaveToken(s.ctx, gomock.Any()).Return(nil)

	output, err := s.service.Login(s.ctx, &LoginInput{
		Email:    "test@example.com",
		Password: s.testPassword,
	})
	s.Require().NoError(err)

	select {
	case u := <-changes:
		s.Equal(s.testUser, u)
	case <-time.After(time.Second):
		s.Fail("observer never saw the login")
	}

	s.mockUserRepo.EXPECT().DeleteToken(s.ctx, gomock.Any()).Return(nil)
	s.Require().NoError(s.service.Logout(s.ctx, &LogoutInput{Token: output.Token}))

	select {
	case u := <-changes:
		s.Nil(u)
	case <-time.After(time.Second):
		s.Fail("observer never saw the logout")
	}
}

// signToken builds a token the service itself would have issued
func (s *IdentityServiceTestSuite) signToken(tokenID string, expiresAt time.Time) string {
	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Subject:   s.testUser.ID,
		IssuedAt:  jwt.NewNumericDate(s.testTime),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testTokenSecret))
	s.Require().NoError(err)
	return token
}
