// services/errors.go
package services

import "errors"

var (
	// ErrNotFound means no credential exists for the given email
	ErrNotFound = errors.New("no account associated with this email")

	// ErrAuthFailed is the single login failure; it never distinguishes an
	// unknown email from a wrong password
	ErrAuthFailed = errors.New("invalid credentials")

	// ErrPolicyViolation means the new password fails the password policy
	ErrPolicyViolation = errors.New("password does not meet policy")

	// ErrNotVerified means no verified OTP backs the reset request
	ErrNotVerified = errors.New("OTP verification required")

	// ErrMailTransport means the OTP email could not be dispatched
	ErrMailTransport = errors.New("failed to send OTP email")

	// ErrTooManyRequests means the email exceeded its OTP request budget
	ErrTooManyRequests = errors.New("too many OTP requests")
)

// VerificationResult is the outcome of an OTP verification attempt
type VerificationResult int

const (
	// Valid means the code matched and the record is now verified
	Valid VerificationResult = iota
	// Invalid means the code did not match; retry is allowed up to the attempt cap
	Invalid
	// Expired means the record outlived its TTL
	Expired
	// NotFound means no active record exists for the email
	NotFound
)

// Reason returns the machine-readable reason code for a verification outcome
func (r VerificationResult) Reason() string {
	switch r {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Expired:
		return "expired"
	default:
		return "not_found"
	}
}
