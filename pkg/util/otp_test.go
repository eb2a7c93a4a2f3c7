package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP()
	require.NoError(t, err)
	assert.Len(t, otp, 6)
	for _, c := range otp {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestHashAndCheckOTP(t *testing.T) {
	otp := "123456"

	hash, err := HashOTP(otp)
	require.NoError(t, err)
	assert.NotEqual(t, otp, hash)

	assert.True(t, CheckOTP(otp, hash))
	assert.False(t, CheckOTP("654321", hash))
	assert.False(t, CheckOTP(otp, "not-a-hash"))
}
