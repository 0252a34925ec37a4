// client/resetflow.go
package client

import (
	"context"
	"errors"
)

// The password-reset flow is a straight line:
//
//	Idle --SubmitEmail--> AwaitingOTP --SubmitCode--> Verified --SubmitNewPassword--> Done
//
// Each state is its own type and only exposes its one legal transition, so a
// caller cannot reach the password step without a successful verification for
// the same email in the same flow. A failed step returns the same state, and
// the caller retries from there.

// ErrCodeFormat rejects a submitted code before it reaches the server
var ErrCodeFormat = errors.New("OTP must be exactly 4 digits")

// Idle is the flow before an email has been submitted
type Idle struct {
	api *API
}

// StartReset begins a password-reset flow
func StartReset(api *API) Idle {
	return Idle{api: api}
}

// SubmitEmail requests an OTP for the email. On success the flow advances to
// AwaitingOTP; on failure it stays at Idle and the error carries the reason.
func (s Idle) SubmitEmail(ctx context.Context, email string) (AwaitingOTP, error) {
	_, err := s.api.post(ctx, "/emailOtp/send-otp", map[string]string{"email": email})
	if err != nil {
		return AwaitingOTP{}, err
	}
	return AwaitingOTP{api: s.api, email: email}, nil
}

// AwaitingOTP is the flow after the OTP email has been dispatched
type AwaitingOTP struct {
	api   *API
	email string
}

// Email returns the email this flow is resetting
func (s AwaitingOTP) Email() string { return s.email }

// SubmitCode verifies the code for this flow's email. On success the flow
// advances to Verified; any other verdict keeps the flow at AwaitingOTP and
// the returned *APIError carries the reason code (invalid, expired,
// not_found) so the UI can choose between retry and resend.
func (s AwaitingOTP) SubmitCode(ctx context.Context, code string) (Verified, error) {
	if len(code) != 4 || !allDigits(code) {
		return Verified{}, ErrCodeFormat
	}

	_, err := s.api.post(ctx, "/emailOtp/verify-otp", map[string]string{
		"email": s.email,
		"otp":   code,
	})
	if err != nil {
		return Verified{}, err
	}
	return Verified{api: s.api, email: s.email}, nil
}

// Verified is the flow after a successful OTP verification
type Verified struct {
	api   *API
	email string
}

// Email returns the email this flow is resetting
func (s Verified) Email() string { return s.email }

// SubmitNewPassword commits the new password and completes the flow
func (s Verified) SubmitNewPassword(ctx context.Context, newPassword string) (Done, error) {
	_, err := s.api.post(ctx, "/emailOtp/reset-password", map[string]string{
		"email":       s.email,
		"newPassword": newPassword,
	})
	if err != nil {
		return Done{}, err
	}
	return Done{Email: s.email}, nil
}

// Done is the completed flow; the caller can log in with the new password
type Done struct {
	Email string
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
