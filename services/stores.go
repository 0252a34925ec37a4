// services/stores.go
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rkaram/bankms_backend/models"
)

// UserStore is the credential persistence the auth and OTP services depend on
type UserStore interface {
	// FindByEmail returns the user for a normalized email, ErrNotFound when absent
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdatePassword overwrites the user's password hash
	UpdatePassword(ctx context.Context, userID primitive.ObjectID, passwordHash string) error
	// SetActive flips the user's active flag
	SetActive(ctx context.Context, userID primitive.ObjectID, active bool) error
}

// OTPStore persists at most one OTP record per email. Verification methods
// must be atomic at the storage layer so check-then-consume cannot race.
type OTPStore interface {
	// Replace upserts the record for its email, superseding any prior one
	Replace(ctx context.Context, record *models.EmailOTP) error
	// Find returns the record for an email, ErrNotFound when absent
	Find(ctx context.Context, email string) (*models.EmailOTP, error)
	// MarkVerified atomically flags the record verified when the code matches
	// an unverified, unconsumed, unexpired record. Returns false otherwise.
	MarkVerified(ctx context.Context, email, code string, now time.Time) (bool, error)
	// RegisterFailure increments the attempt counter and returns the new count
	RegisterFailure(ctx context.Context, email string) (int, error)
	// Consume invalidates the record for the email regardless of state
	Consume(ctx context.Context, email string) error
}
