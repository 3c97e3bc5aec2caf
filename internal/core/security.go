// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}

var dummyHash string

func init() {
	hash, err := HashPassword("dummy_password_for_timing_attack_prevention")
	if err != nil {
		panic(fmt.Sprintf("security: failed to generate dummy hash: %v", err))
	}
	dummyHash = hash
}

// VerifyPasswordTimingSafe always performs one bcrypt comparison so that a
// missing user costs the same as a wrong password.
func VerifyPasswordTimingSafe(password string, encodedHash *string) (bool, error) {
	hashToVerify := dummyHash
	if encodedHash != nil && *encodedHash != "" {
		hashToVerify = *encodedHash
	}

	valid, err := VerifyPassword(password, hashToVerify)

	if encodedHash == nil || *encodedHash == "" {
		return false, nil
	}

	return valid, err
}

func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// GenerateAccessKey returns a 192-bit URL-safe board access key.
func GenerateAccessKey() (string, error) {
	return GenerateSecureToken(24)
}
