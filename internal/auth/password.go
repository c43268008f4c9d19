package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword is returned when a password fails the minimum-length
// check. The check runs before hashing so clearly-invalid input never
// costs a bcrypt round.
var ErrWeakPassword = errors.New("password too short")

// PasswordHasher owns the one-way hash and verify capability for
// credentials.
type PasswordHasher struct {
	minLen int
}

func NewPasswordHasher(minLen int) *PasswordHasher {
	return &PasswordHasher{minLen: minLen}
}

// Hash produces a bcrypt digest, rejecting passwords below the
// configured minimum length.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) < h.minLen {
		return "", ErrWeakPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A malformed digest is
// never an error, just false; comparison timing is bcrypt's own.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
