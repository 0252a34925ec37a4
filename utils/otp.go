// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTooManyOTPRequests is returned when an email exceeds its OTP request budget
var ErrTooManyOTPRequests = errors.New("too many OTP requests")

// GenerateOTP generates a random numeric OTP of the specified length
func GenerateOTP(length int) (string, error) {
	const digits = "0123456789"
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		result[i] = digits[num.Int64()]
	}
	return string(result), nil
}

// ValidateOTPRequests enforces the per-email OTP request budget: 5 requests
// per hour. A nil redis client disables the check.
func ValidateOTPRequests(ctx context.Context, rdb *redis.Client, email string) error {
	if rdb == nil {
		return nil
	}

	key := "otp_requests:" + email
	requests, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	if requests == 1 {
		rdb.Expire(ctx, key, 1*time.Hour)
	}

	if requests > 5 {
		return ErrTooManyOTPRequests
	}

	return nil
}

// MaskEmail partially masks an email address for responses
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	name := parts[0]
	domain := parts[1]

	if len(name) <= 2 {
		return name[:1] + "***@" + domain
	}

	return name[:2] + strings.Repeat("*", len(name)-2) + "@" + domain
}
