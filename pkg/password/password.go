// Package password wraps bcrypt hashing with the account password policy.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinLength is the minimum accepted password length.
const MinLength = 6

// ErrTooShort indicates the password does not meet MinLength.
var ErrTooShort = fmt.Errorf("password must be at least %d characters", MinLength)

const saltRounds = 10

// Generate hashes a password without policy checks.
func Generate(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), saltRounds)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Validate reports whether a password meets the policy.
func Validate(plain string) bool {
	return len(plain) >= MinLength
}

// Create validates then hashes a password.
func Create(plain string) (string, error) {
	if !Validate(plain) {
		return "", ErrTooShort
	}
	return Generate(plain)
}

// Verify reports whether plain matches the stored hash.
func Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
