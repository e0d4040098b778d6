// Package auth checks admin credentials and signs session tokens.
package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator decides whether a username/password pair may log in.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// Static accepts exactly one username and password. Only a bcrypt hash of
// the password is kept in memory.
type Static struct {
	username string
	hash     []byte
}

// NewStatic hashes password and returns an Authenticator for the pair.
func NewStatic(username, password string) (*Static, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("admin username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Static{username: username, hash: hash}, nil
}

// Authenticate reports whether username and password match the configured pair.
func (s *Static) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
	return userOK && passOK
}
