// controllers/email_otp_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/rkaram/bankms_backend/models"
	"github.com/rkaram/bankms_backend/services"
	"github.com/rkaram/bankms_backend/utils"
)

// EmailOTPController handles the OTP password-reset endpoints
type EmailOTPController struct {
	otp   *services.OTPService
	redis *redis.Client
}

// NewEmailOTPController creates a new email OTP controller. The redis client
// may be nil, which disables the per-email request budget.
func NewEmailOTPController(otp *services.OTPService, rdb *redis.Client) *EmailOTPController {
	return &EmailOTPController{otp: otp, redis: rdb}
}

// SendOTP issues a password-reset OTP and emails it to the account owner
func (ec *EmailOTPController) SendOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email is required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	if err := utils.ValidateOTPRequests(ctx, ec.redis, email); err != nil {
		if errors.Is(err, utils.ErrTooManyOTPRequests) {
			return c.JSON(http.StatusTooManyRequests, models.Response{
				Status:  http.StatusTooManyRequests,
				Message: "Too many OTP requests. Please try again later.",
			})
		}
		c.Logger().Errorf("OTP request budget check failed: %v", err)
	}

	if err := ec.otp.Issue(ctx, email); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No account associated with this email",
			})
		case errors.Is(err, services.ErrMailTransport):
			c.Logger().Errorf("OTP dispatch failed: %v", err)
			return c.JSON(http.StatusBadGateway, models.Response{
				Status:  http.StatusBadGateway,
				Message: "Failed to send OTP email",
			})
		default:
			c.Logger().Errorf("OTP issuance failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to process OTP request",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTP sent successfully",
		Data: map[string]interface{}{
			"email": utils.MaskEmail(email),
		},
	})
}

// VerifyOTP checks a submitted code and reports the verdict with a
// machine-readable reason
func (ec *EmailOTPController) VerifyOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.OTP == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and OTP are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	result, err := ec.otp.Verify(ctx, email, req.OTP)
	if err != nil {
		c.Logger().Errorf("OTP verification failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify OTP",
		})
	}

	if result != services.Valid {
		var message string
		switch result {
		case services.Expired:
			message = "OTP has expired. Please request a new OTP"
		case services.NotFound:
			message = "No OTP request found. Please request a new OTP"
		default:
			message = "Invalid OTP"
		}
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: message,
			Data: map[string]interface{}{
				"reason": result.Reason(),
			},
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTP verified successfully",
	})
}

// ResetPassword commits a new password after a successful OTP verification
func (ec *EmailOTPController) ResetPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and new password are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	if err := ec.otp.Reset(ctx, email, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrPolicyViolation):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Password must be between 8 and 20 characters long",
				Data: map[string]interface{}{
					"reason": "weak_password",
				},
			})
		case errors.Is(err, services.ErrNotVerified):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "OTP verification required before resetting password",
				Data: map[string]interface{}{
					"reason": "not_verified",
				},
			})
		case errors.Is(err, services.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No account associated with this email",
			})
		default:
			c.Logger().Errorf("password reset failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to reset password",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}
