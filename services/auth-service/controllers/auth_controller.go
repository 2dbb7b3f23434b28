package controllers

import (
	"errors"
	"net/http"

	apperrors "github.com/rishavk21/UrbanCart-backend/common/errors"
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessCookie  = "token"
	refreshCookie = "refresh_token"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type AuthController struct {
	authService *services.AuthService
	logger      *zap.Logger
}

func NewAuthController(as *services.AuthService, logger *zap.Logger) *AuthController {
	return &AuthController{authService: as, logger: logger}
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if err := ac.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created, verification code sent"})
}

// VerifyUser handles POST /auth/verify-user.
func (ac *AuthController) VerifyUser(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if err := ac.authService.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// ResendOTP handles POST /auth/resend-otp.
func (ac *AuthController) ResendOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if err := ac.authService.ResendOTP(c.Request.Context(), req.Email); err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	pair, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ac.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

// RefreshToken handles POST /auth/refresh-token.
func (ac *AuthController) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not found"})
		return
	}

	pair, err := ac.authService.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		ac.clearAuthCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ac.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "Tokens refreshed"})
}

// LogoutUser handles GET /auth/logout-user.
func (ac *AuthController) LogoutUser(c *gin.Context) {
	if refreshToken, err := c.Cookie(refreshCookie); err == nil {
		ac.authService.Logout(c.Request.Context(), refreshToken)
	}
	ac.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// LoggedInUser handles GET /auth/logged-in-user.
func (ac *AuthController) LoggedInUser(c *gin.Context) {
	ac.currentUser(c, "")
}

// LoggedInAdmin handles GET /auth/logged-in-admin.
func (ac *AuthController) LoggedInAdmin(c *gin.Context) {
	ac.currentUser(c, "admin")
}

func (ac *AuthController) currentUser(c *gin.Context, requiredRole string) {
	userID := c.GetHeader("X-User-ID")
	role := c.GetHeader("X-User-Role")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if requiredRole != "" && role != requiredRole {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	user, err := ac.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ForgotPassword handles POST /auth/forgot-password-user.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if err := ac.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code was sent"})
}

// VerifyForgotPassword handles POST /auth/verify-forgot-password-user.
func (ac *AuthController) VerifyForgotPassword(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	token, err := ac.authService.VerifyForgotPassword(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset_token": token})
}

// ResetPassword handles POST /auth/reset-password-user.
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if err := ac.authService.ResetPassword(c.Request.Context(), req.ResetToken, req.NewPassword); err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (ac *AuthController) setAuthCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetCookie(accessCookie, pair.AccessToken, int(services.AccessTokenTTL.Seconds()), "/", "", false, true)
	c.SetCookie(refreshCookie, pair.RefreshToken, int(services.RefreshTokenTTL.Seconds()), "/", "", false, true)
}

func (ac *AuthController) clearAuthCookies(c *gin.Context) {
	c.SetCookie(accessCookie, "", -1, "/", "", false, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
}

// respondError maps application errors onto their HTTP status, falling back
// to 400 for plain business errors.
func (ac *AuthController) respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
