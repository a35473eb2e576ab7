package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultBcryptCost = bcrypt.DefaultCost
	MinPasswordLength = 8
)

var (
	ErrPasswordTooShort   = errors.New("password must contain at least 8 characters")
	ErrPasswordNumeric    = errors.New("password cannot be entirely numeric")
	ErrPasswordTooCommon  = errors.New("password is too common")
	ErrPasswordLikeAttrib = errors.New("password is too similar to the username")
)

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty123":  {},
	"iloveyou":   {},
	"admin123":   {},
	"welcome1":   {},
	"letmein1":   {},
	"football":   {},
	"baseball":   {},
	"sunshine":   {},
	"princess":   {},
	"passw0rd":   {},
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), defaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a stored hash with a candidate password.
func VerifyPassword(hash, candidate string) error {
	if strings.TrimSpace(hash) == "" {
		return errors.New("stored password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
}

// ValidatePassword applies the strength rules used at registration.
func ValidatePassword(password, username string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return ErrPasswordNumeric
	}
	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		return ErrPasswordTooCommon
	}
	if u := strings.ToLower(strings.TrimSpace(username)); len(u) >= 3 && strings.Contains(lower, u) {
		return ErrPasswordLikeAttrib
	}
	return nil
}
