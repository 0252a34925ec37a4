// models/otp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailOTP represents the password-reset OTP for one email address.
// The emailOtps collection keeps at most one document per email; issuing a
// new code replaces the previous one.
type EmailOTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	OTP       string             `bson:"otp"`
	IssuedAt  time.Time          `bson:"issuedAt"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	Attempts  int                `bson:"attempts"`
	Verified  bool               `bson:"verified"`
	Consumed  bool               `bson:"consumed"`
}

// SendOTPRequest is the body of POST /api/emailOtp/send-otp
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest is the body of POST /api/emailOtp/verify-otp
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=4,numeric"`
}

// ResetPasswordRequest is the body of POST /api/emailOtp/reset-password
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required"`
}
