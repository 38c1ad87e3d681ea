package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadAdminKey = errors.New("invalid admin key")

// AdminGuard verifies the operator key presented on admin requests
// against a bcrypt hash kept in configuration. The plaintext key never
// lives in the process.
type AdminGuard struct {
	keyHash []byte
}

// NewAdminGuard creates a guard from a bcrypt hash of the admin key.
// An empty hash disables the admin surface entirely.
func NewAdminGuard(keyHash string) *AdminGuard {
	return &AdminGuard{keyHash: []byte(keyHash)}
}

// Enabled reports whether an admin key is configured.
func (g *AdminGuard) Enabled() bool {
	return len(g.keyHash) > 0
}

// Verify checks a presented key against the configured hash.
func (g *AdminGuard) Verify(key string) error {
	if !g.Enabled() || key == "" {
		return ErrBadAdminKey
	}
	if err := bcrypt.CompareHashAndPassword(g.keyHash, []byte(key)); err != nil {
		return ErrBadAdminKey
	}
	return nil
}
