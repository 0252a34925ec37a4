package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cretPass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretPass", hash)

	assert.NoError(t, CheckPassword("s3cretPass", hash))
	assert.Error(t, CheckPassword("wrongPass", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("samePassword")
	require.NoError(t, err)
	second, err := HashPassword("samePassword")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
