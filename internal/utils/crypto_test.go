// internal/utils/crypto_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyEncryptRoundTrip(t *testing.T) {
	for _, plain := range []string{"admin123", "senha-ção", "", "a"} {
		decrypted, err := LegacyDecrypt(LegacyEncrypt(plain))
		require.NoError(t, err)
		assert.Equal(t, plain, decrypted)
	}
}

func TestLegacyEncryptKnownValue(t *testing.T) {
	// base64("admin123") == "YWRtaW4xMjM=", then reversed.
	assert.Equal(t, "=MjMx4WatRWY", LegacyEncrypt("admin123"))
}

func TestLegacyDecryptRejectsGarbage(t *testing.T) {
	_, err := LegacyDecrypt("!!! not base64 !!!")
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
	assert.False(t, CheckPassword("not-a-hash", "admin123"))
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("token", "token"))
	assert.False(t, SecureCompare("token", "token2"))
	assert.False(t, SecureCompare("", "token"))
	assert.True(t, SecureCompare("", ""))
}
