package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rishavk21/UrbanCart-backend/services/auth-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	purposeVerify = "verify"
	purposeReset  = "reset"
)

type IUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error
	GetRefreshTokenByTokenID(ctx context.Context, tokenID string) (*models.RefreshToken, error)
	RevokeRefreshTokenByTokenID(ctx context.Context, tokenID string) error
	RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type ITokenService interface {
	GenerateTokenPair(userID, email, role string) (*TokenPair, string, error)
	ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error)
}

type IOTPGuard interface {
	Issue(ctx context.Context, email, purpose string) (string, error)
	Verify(ctx context.Context, email, purpose, code string) error
	CreateResetToken(ctx context.Context, email, token string) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

type IEmailSender interface {
	SendOTPEmail(to, code, purpose string) error
}

type AuthService struct {
	userRepo     IUserRepository
	tokenService ITokenService
	otpGuard     IOTPGuard
	email        IEmailSender
	db           *gorm.DB
	logger       *zap.Logger
}

func NewAuthService(ur IUserRepository, ts ITokenService, og IOTPGuard, es IEmailSender, db *gorm.DB, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: ur, tokenService: ts, otpGuard: og, email: es, db: db, logger: logger}
}

// Register creates an unverified account and emails a verification OTP.
// The OTP guard runs before the insert so a locked identity cannot create
// mail traffic by re-registering.
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return fmt.Errorf("email already exists")
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := ValidatePassword(password); err != nil {
		return err
	}

	code, err := s.otpGuard.Issue(ctx, email, purposeVerify)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password")
	}

	newUser := &models.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          name,
		Password:      string(hashedPassword),
		Role:          "user",
		EmailVerified: false,
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.email.SendOTPEmail(newUser.Email, code, purposeVerify); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// VerifyEmail verifies the OTP sent at registration and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found")
	}

	if err := s.otpGuard.Verify(ctx, email, purposeVerify, code); err != nil {
		return err
	}

	user.EmailVerified = true
	return s.userRepo.Update(ctx, user)
}

// ResendOTP issues a fresh verification code for an unverified account.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found")
	}
	if user.EmailVerified {
		return fmt.Errorf("email already verified")
	}

	code, err := s.otpGuard.Issue(ctx, email, purposeVerify)
	if err != nil {
		return err
	}
	return s.email.SendOTPEmail(email, code, purposeVerify)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if !user.EmailVerified {
		return nil, fmt.Errorf("email not verified")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

// RefreshTokens rotates a refresh token: the presented jti is revoked and a
// new pair is issued. A missing or revoked jti rejects the request.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenService.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	tokenID, ok := claims["jti"].(string)
	if !ok || tokenID == "" {
		return nil, fmt.Errorf("invalid token: jti claim missing")
	}

	stored, err := s.userRepo.GetRefreshTokenByTokenID(ctx, tokenID)
	if err != nil || stored.Revoked {
		return nil, fmt.Errorf("refresh token revoked or unknown")
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token: sub claim missing")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid token: sub is not a valid UUID")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	if err := s.userRepo.RevokeRefreshTokenByTokenID(ctx, tokenID); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token, if any.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	claims, err := s.tokenService.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return
	}
	if tokenID, ok := claims["jti"].(string); ok && tokenID != "" {
		if err := s.userRepo.RevokeRefreshTokenByTokenID(ctx, tokenID); err != nil {
			s.logger.Warn("failed to revoke refresh token on logout", zap.Error(err))
		}
	}
}

// ForgotPassword issues a reset OTP under the same guard as registration.
// An unknown email returns nil so the endpoint does not leak which addresses
// have accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		return nil
	}

	code, err := s.otpGuard.Issue(ctx, email, purposeReset)
	if err != nil {
		return err
	}
	return s.email.SendOTPEmail(email, code, purposeReset)
}

// VerifyForgotPassword verifies the reset OTP and returns a one-time reset token.
func (s *AuthService) VerifyForgotPassword(ctx context.Context, email, code string) (string, error) {
	if err := s.otpGuard.Verify(ctx, email, purposeReset, code); err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.otpGuard.CreateResetToken(ctx, email, token); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token, re-hashes the password and revokes
// every outstanding refresh token for the account.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	email, err := s.otpGuard.ConsumeResetToken(ctx, resetToken)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found")
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password")
	}

	user.Password = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.userRepo.RevokeAllUserRefreshTokens(ctx, user.ID)
}

// GetUser returns the account for an authenticated user ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	return s.userRepo.FindByID(ctx, id)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, tokenID, err := s.tokenService.GenerateTokenPair(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	rt := &models.RefreshToken{
		TokenID:   tokenID,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}
	if err := s.userRepo.CreateRefreshToken(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return pair, nil
}

var _ IUserRepository = (*repository.UserRepository)(nil)
