// internal/utils/crypto.go
package utils

import (
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a bcrypt hash for credential storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SecureCompare is a constant-time string equality check, used for the
// static admin bearer token and for legacy credential columns.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// LegacyEncrypt reproduces the reversed-base64 obfuscation the legacy
// credential rows were written with. It is not encryption; it exists only so
// rows that predate bcrypt storage can still be matched (and upgraded) at
// login, and for the debug round-trip endpoint.
func LegacyEncrypt(text string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	return reverseString(encoded)
}

// LegacyDecrypt undoes LegacyEncrypt.
func LegacyDecrypt(encrypted string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(reverseString(encrypted))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
