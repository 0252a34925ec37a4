// services/otp_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rkaram/bankms_backend/models"
	"github.com/rkaram/bankms_backend/utils"
)

const (
	otpLength      = 4
	maxOTPAttempts = 5
)

// OTPService implements the email OTP password-reset flow: issue a code,
// verify it, and commit a new password against a verified code.
type OTPService struct {
	users  UserStore
	otps   OTPStore
	mailer utils.Mailer
	ttl    time.Duration

	// now is replaceable so expiry behavior can be tested against a fixed clock
	now func() time.Time
}

// NewOTPService creates an OTP service with the given stores and mail transport
func NewOTPService(users UserStore, otps OTPStore, mailer utils.Mailer, ttl time.Duration) *OTPService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OTPService{
		users:  users,
		otps:   otps,
		mailer: mailer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue generates a fresh OTP for the email, persists it in place of any
// prior record and emails it to the user. The email must already be
// normalized. Returns ErrNotFound when no credential exists for the email and
// ErrMailTransport when dispatch fails; in the latter case the previous code
// has already been superseded.
func (s *OTPService) Issue(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := utils.GenerateOTP(otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	now := s.now()
	record := &models.EmailOTP{
		Email:     email,
		OTP:       code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.otps.Replace(ctx, record); err != nil {
		return fmt.Errorf("failed to save OTP record: %w", err)
	}

	if err := s.mailer.SendOTP(user.Email, user.Username, code); err != nil {
		return fmt.Errorf("%w: %v", ErrMailTransport, err)
	}

	return nil
}

// Verify checks a submitted code against the active record for the email.
// A Valid result consumes the code: no second Valid can be produced for the
// same record. Wrong codes are tolerated up to the attempt cap, after which
// the record is invalidated.
func (s *OTPService) Verify(ctx context.Context, email, code string) (VerificationResult, error) {
	record, err := s.otps.Find(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return NotFound, nil
		}
		return NotFound, fmt.Errorf("failed to look up OTP record: %w", err)
	}

	if record.Consumed || record.Verified {
		return NotFound, nil
	}

	now := s.now()
	if now.After(record.ExpiresAt) {
		if err := s.otps.Consume(ctx, email); err != nil {
			return Expired, fmt.Errorf("failed to consume expired OTP: %w", err)
		}
		return Expired, nil
	}

	ok, err := s.otps.MarkVerified(ctx, email, code, now)
	if err != nil {
		return Invalid, fmt.Errorf("failed to verify OTP: %w", err)
	}
	if ok {
		return Valid, nil
	}

	// Wrong code, or a concurrent verification won the conditional update
	attempts, err := s.otps.RegisterFailure(ctx, email)
	if err != nil {
		return Invalid, fmt.Errorf("failed to record OTP attempt: %w", err)
	}
	if attempts >= maxOTPAttempts {
		if err := s.otps.Consume(ctx, email); err != nil {
			return Invalid, fmt.Errorf("failed to consume OTP: %w", err)
		}
	}

	return Invalid, nil
}

// Reset commits a new password for the email. It requires a verified,
// unconsumed, unexpired OTP record for the same email (the verified flag is
// what Verify's Valid result left behind) and invalidates that record once
// the password is written.
func (s *OTPService) Reset(ctx context.Context, email, newPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrPolicyViolation, err)
	}

	record, err := s.otps.Find(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return ErrNotVerified
		}
		return fmt.Errorf("failed to look up OTP record: %w", err)
	}
	if !record.Verified || record.Consumed || s.now().After(record.ExpiresAt) {
		return ErrNotVerified
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.otps.Consume(ctx, email); err != nil {
		return fmt.Errorf("failed to consume OTP record: %w", err)
	}

	return nil
}
