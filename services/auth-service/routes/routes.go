package routes

import (
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes sets up all auth routes. Identity headers for the
// logged-in endpoints are injected by the API gateway.
func RegisterAuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	auth := r.Group("/auth")

	auth.POST("/register", ac.Register)
	auth.POST("/verify-user", ac.VerifyUser)
	auth.POST("/resend-otp", ac.ResendOTP)
	auth.POST("/login", ac.Login)
	auth.POST("/refresh-token", ac.RefreshToken)
	auth.GET("/logout-user", ac.LogoutUser)
	auth.GET("/logged-in-user", ac.LoggedInUser)
	auth.GET("/logged-in-admin", ac.LoggedInAdmin)
	auth.POST("/forgot-password-user", ac.ForgotPassword)
	auth.POST("/verify-forgot-password-user", ac.VerifyForgotPassword)
	auth.POST("/reset-password-user", ac.ResetPassword)
}
