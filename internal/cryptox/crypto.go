// Package cryptox covers the credential and token primitives: bcrypt
// password hashing and opaque session token generation.
package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/oakbb/oakboard/internal/common"
)

// BCryptCost is the fixed work factor for password hashing.
const BCryptCost = 10

// MaxPasswordLength is bcrypt's input limit in bytes. Longer passwords are
// rejected up front rather than silently truncated.
const MaxPasswordLength = 72

// sessionTokenBytes gives 192 bits of entropy per token.
const sessionTokenBytes = 24

// HashPassword hashes a password with bcrypt. Passwords longer than
// MaxPasswordLength bytes fail with common.ErrorValidation.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", fmt.Errorf("%w: password must be no more than %d bytes", common.ErrorValidation, MaxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// MakeSessionToken returns a cryptographically random, URL-safe token.
func MakeSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
