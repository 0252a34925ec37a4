package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/rkaram/bankms_backend/controllers"
)

// RegisterAuthRoutes sets up the public login and OTP password-reset routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, otpController *controllers.EmailOTPController) {
	auth := e.Group("/api/auth")
	auth.POST("/login", authController.Login)

	emailOtp := e.Group("/api/emailOtp")
	emailOtp.POST("/send-otp", otpController.SendOTP)
	emailOtp.POST("/verify-otp", otpController.VerifyOTP)
	emailOtp.POST("/reset-password", otpController.ResetPassword)
}
