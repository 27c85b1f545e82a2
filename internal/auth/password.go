package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 12
	MinPasswordLength = 8
	// bcrypt only hashes the first 72 bytes of input.
	maxPasswordLength = 72
)

// ErrWrongPassword is returned by VerifyPassword on a mismatch. Callers
// should surface it identically to "unknown email" so login responses
// don't reveal which of the two was wrong.
var ErrWrongPassword = errors.New("auth: password does not match")

// HashPassword bcrypt-hashes a plaintext password. The salt is generated
// per call and embedded in the returned hash.
func HashPassword(password string) (string, error) {
	if err := checkPasswordPolicy(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored hash.
func VerifyPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongPassword
		}
		return fmt.Errorf("auth: verifying password: %w", err)
	}
	return nil
}

func checkPasswordPolicy(password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("auth: password is required")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("auth: password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("auth: password must be at most %d characters", maxPasswordLength)
	}
	return nil
}
