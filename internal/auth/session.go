package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionTTL is how long a login lasts.
	SessionTTL = 24 * time.Hour
	issuer     = "gradebook"
)

// ErrInvalidSession is returned for tokens that are malformed, forged, or expired.
var ErrInvalidSession = errors.New("invalid session")

// Sessions issues and verifies HMAC-signed session tokens carrying the username.
type Sessions struct {
	secret []byte
	now    func() time.Time
}

// NewSessions returns a token codec keyed by secret.
func NewSessions(secret string) (*Sessions, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	return &Sessions{secret: []byte(secret), now: time.Now}, nil
}

// Issue returns a signed token for username.
func (s *Sessions) Issue(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    issuer,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks token and returns the username it was issued for.
func (s *Sessions) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
