package services

import (
	"context"
	"testing"

	"github.com/rishavk21/UrbanCart-backend/services/auth-service/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- Mocks for Dependencies ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockUserRepository) GetRefreshTokenByTokenID(ctx context.Context, tokenID string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}
func (m *MockUserRepository) RevokeRefreshTokenByTokenID(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}
func (m *MockUserRepository) RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockTokenService struct{ mock.Mock }

func (m *MockTokenService) GenerateTokenPair(userID, email, role string) (*TokenPair, string, error) {
	args := m.Called(userID, email, role)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*TokenPair), args.String(1), args.Error(2)
}
func (m *MockTokenService) ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error) {
	args := m.Called(tokenStr, expectedType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(jwt.MapClaims), args.Error(1)
}

type MockOTPGuard struct{ mock.Mock }

func (m *MockOTPGuard) Issue(ctx context.Context, email, purpose string) (string, error) {
	args := m.Called(ctx, email, purpose)
	return args.String(0), args.Error(1)
}
func (m *MockOTPGuard) Verify(ctx context.Context, email, purpose, code string) error {
	args := m.Called(ctx, email, purpose, code)
	return args.Error(0)
}
func (m *MockOTPGuard) CreateResetToken(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}
func (m *MockOTPGuard) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) SendOTPEmail(to, code, purpose string) error {
	args := m.Called(to, code, purpose)
	return args.Error(0)
}

func newTestService() (*AuthService, *MockUserRepository, *MockTokenService, *MockOTPGuard, *MockEmailSender) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenService)
	mockGuard := new(MockOTPGuard)
	mockEmail := new(MockEmailSender)
	svc := NewAuthService(mockRepo, mockTokens, mockGuard, mockEmail, nil, zap.NewNop())
	return svc, mockRepo, mockTokens, mockGuard, mockEmail
}

// --- Tests ---

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, mockRepo, _, mockGuard, mockEmail := newTestService()
		mockRepo.On("FindByEmail", ctx, "new@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		mockGuard.On("Issue", ctx, "new@example.com", "verify").Return("123456", nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()
		mockEmail.On("SendOTPEmail", "new@example.com", "123456", "verify").Return(nil).Once()

		err := svc.Register(ctx, "New User", "new@example.com", "Str0ngPassword")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockGuard.AssertExpectations(t)
		mockEmail.AssertExpectations(t)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newTestService()
		existing := &models.User{ID: uuid.New(), Email: "taken@example.com"}
		mockRepo.On("FindByEmail", ctx, "taken@example.com").Return(existing, nil).Once()

		err := svc.Register(ctx, "Someone", "taken@example.com", "Str0ngPassword")

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Guard Rejects Issuance", func(t *testing.T) {
		svc, mockRepo, _, mockGuard, _ := newTestService()
		mockRepo.On("FindByEmail", ctx, "spam@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		mockGuard.On("Issue", ctx, "spam@example.com", "verify").Return("", assert.AnError).Once()

		err := svc.Register(ctx, "Spammer", "spam@example.com", "Str0ngPassword")

		assert.Error(t, err)
		// No account row is written when the guard refuses.
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	password := "Str0ngPassword"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	testUser := &models.User{
		ID:            uuid.New(),
		Email:         "test@example.com",
		Password:      string(hashedPassword),
		Role:          "user",
		EmailVerified: true,
	}

	t.Run("Success", func(t *testing.T) {
		svc, mockRepo, mockTokens, _, _ := newTestService()
		mockRepo.On("FindByEmail", ctx, testUser.Email).Return(testUser, nil).Once()
		mockTokens.On("GenerateTokenPair", testUser.ID.String(), testUser.Email, testUser.Role).
			Return(&TokenPair{AccessToken: "access", RefreshToken: "refresh"}, "jti-1", nil).Once()
		mockRepo.On("CreateRefreshToken", ctx, mock.AnythingOfType("*models.RefreshToken")).Return(nil).Once()

		pair, err := svc.Login(ctx, testUser.Email, password)

		assert.NoError(t, err)
		assert.Equal(t, "access", pair.AccessToken)
		mockRepo.AssertExpectations(t)
		mockTokens.AssertExpectations(t)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newTestService()
		mockRepo.On("FindByEmail", ctx, testUser.Email).Return(testUser, nil).Once()

		_, err := svc.Login(ctx, testUser.Email, "wrongpassword")

		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("Unverified Email", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newTestService()
		unverified := &models.User{ID: uuid.New(), Email: "fresh@example.com", Password: string(hashedPassword)}
		mockRepo.On("FindByEmail", ctx, unverified.Email).Return(unverified, nil).Once()

		_, err := svc.Login(ctx, unverified.Email, password)

		assert.EqualError(t, err, "email not verified")
	})

	t.Run("User Not Found", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newTestService()
		mockRepo.On("FindByEmail", ctx, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.Login(ctx, "notfound@example.com", password)

		assert.EqualError(t, err, "invalid email or password")
	})
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Email: "test@example.com", Role: "user", EmailVerified: true}

	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"jti": "old-jti",
	}

	t.Run("Rotation", func(t *testing.T) {
		svc, mockRepo, mockTokens, _, _ := newTestService()
		mockTokens.On("ValidateToken", "refresh-token", "refresh").Return(claims, nil).Once()
		mockRepo.On("GetRefreshTokenByTokenID", ctx, "old-jti").
			Return(&models.RefreshToken{TokenID: "old-jti", UserID: user.ID}, nil).Once()
		mockRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		mockRepo.On("RevokeRefreshTokenByTokenID", ctx, "old-jti").Return(nil).Once()
		mockTokens.On("GenerateTokenPair", user.ID.String(), user.Email, user.Role).
			Return(&TokenPair{AccessToken: "a2", RefreshToken: "r2"}, "new-jti", nil).Once()
		mockRepo.On("CreateRefreshToken", ctx, mock.MatchedBy(func(rt *models.RefreshToken) bool {
			return rt.TokenID == "new-jti" && rt.UserID == user.ID
		})).Return(nil).Once()

		pair, err := svc.RefreshTokens(ctx, "refresh-token")

		assert.NoError(t, err)
		assert.Equal(t, "r2", pair.RefreshToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Revoked Token Rejected", func(t *testing.T) {
		svc, mockRepo, mockTokens, _, _ := newTestService()
		mockTokens.On("ValidateToken", "refresh-token", "refresh").Return(claims, nil).Once()
		mockRepo.On("GetRefreshTokenByTokenID", ctx, "old-jti").
			Return(&models.RefreshToken{TokenID: "old-jti", UserID: user.ID, Revoked: true}, nil).Once()

		_, err := svc.RefreshTokens(ctx, "refresh-token")

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "RevokeRefreshTokenByTokenID", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		svc, _, mockTokens, _, _ := newTestService()
		mockTokens.On("ValidateToken", "garbage", "refresh").Return(nil, assert.AnError).Once()

		_, err := svc.RefreshTokens(ctx, "garbage")

		assert.Error(t, err)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Email: "test@example.com", Password: "old-hash", EmailVerified: true}

	t.Run("Success Revokes Sessions", func(t *testing.T) {
		svc, mockRepo, _, mockGuard, _ := newTestService()
		mockGuard.On("ConsumeResetToken", ctx, "reset-token").Return(user.Email, nil).Once()
		mockRepo.On("FindByEmail", ctx, user.Email).Return(user, nil).Once()
		mockRepo.On("Update", ctx, user).Return(nil).Once()
		mockRepo.On("RevokeAllUserRefreshTokens", ctx, user.ID).Return(nil).Once()

		err := svc.ResetPassword(ctx, "reset-token", "N3wStrongPassword")

		assert.NoError(t, err)
		assert.NotEqual(t, "old-hash", user.Password)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Invalid Reset Token", func(t *testing.T) {
		svc, mockRepo, _, mockGuard, _ := newTestService()
		mockGuard.On("ConsumeResetToken", ctx, "bad-token").Return("", assert.AnError).Once()

		err := svc.ResetPassword(ctx, "bad-token", "N3wStrongPassword")

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Weak Password Rejected", func(t *testing.T) {
		svc, mockRepo, _, mockGuard, _ := newTestService()
		mockGuard.On("ConsumeResetToken", ctx, "reset-token").Return(user.Email, nil).Once()
		mockRepo.On("FindByEmail", ctx, user.Email).Return(user, nil).Once()

		err := svc.ResetPassword(ctx, "reset-token", "short")

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, mockRepo, _, mockGuard, _ := newTestService()
		user := &models.User{ID: uuid.New(), Email: "test@example.com"}
		mockRepo.On("FindByEmail", ctx, user.Email).Return(user, nil).Once()
		mockGuard.On("Verify", ctx, user.Email, "verify", "123456").Return(nil).Once()
		mockRepo.On("Update", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.EmailVerified
		})).Return(nil).Once()

		err := svc.VerifyEmail(ctx, user.Email, "123456")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Wrong Code", func(t *testing.T) {
		svc, mockRepo, _, mockGuard, _ := newTestService()
		user := &models.User{ID: uuid.New(), Email: "test@example.com"}
		mockRepo.On("FindByEmail", ctx, user.Email).Return(user, nil).Once()
		mockGuard.On("Verify", ctx, user.Email, "verify", "000000").Return(ErrOTPMismatch).Once()

		err := svc.VerifyEmail(ctx, user.Email, "000000")

		assert.ErrorIs(t, err, ErrOTPMismatch)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	ctx := context.Background()
	svc, mockRepo, _, mockGuard, _ := newTestService()
	mockRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound).Once()

	err := svc.ForgotPassword(ctx, "ghost@example.com")

	assert.NoError(t, err)
	mockGuard.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}
