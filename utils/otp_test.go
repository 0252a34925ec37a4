package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP(4)
		require.NoError(t, err)
		require.Len(t, otp, 4)
		for _, r := range otp {
			assert.GreaterOrEqual(t, r, '0')
			assert.LessOrEqual(t, r, '9')
		}
	}
}

func TestGenerateOTPLength(t *testing.T) {
	otp, err := GenerateOTP(6)
	require.NoError(t, err)
	assert.Len(t, otp, 6)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "jo**@bank.com", MaskEmail("john@bank.com"))
	assert.Equal(t, "a***@b.com", MaskEmail("a@b.com"))
	assert.Equal(t, "not-an-email", MaskEmail("not-an-email"))
}

func TestValidateOTPRequestsNilClient(t *testing.T) {
	// A nil redis client disables the budget entirely
	assert.NoError(t, ValidateOTPRequests(context.Background(), nil, "a@b.com"))
}
