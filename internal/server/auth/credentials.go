package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Identity is the one account allowed to log in.
type Identity struct {
	Username     string
	PasswordHash string
}

// CredentialStore checks login attempts against a single Identity. It is
// immutable once built.
type CredentialStore struct {
	identity Identity
}

// NewCredentialStore validates that passwordHash is a bcrypt hash.
func NewCredentialStore(username, passwordHash string) (*CredentialStore, error) {
	if username == "" {
		return nil, errors.New("username must not be empty")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("password hash: %w", err)
	}
	return &CredentialStore{identity: Identity{Username: username, PasswordHash: passwordHash}}, nil
}

// Username returns the configured identity's username.
func (c *CredentialStore) Username() string {
	return c.identity.Username
}

// Verify reports whether username and password match the identity.
// The bcrypt comparison runs even on a username mismatch.
func (c *CredentialStore) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.identity.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(c.identity.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}

// HashPassword returns a bcrypt hash of password. cost <= 0 means bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
