package auth

import (
	"errors"
	"testing"
	"time"
)

func TestStaticAuthenticate(t *testing.T) {
	a, err := NewStatic("admin", "password")
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"correct", "admin", "password", true},
		{"wrong password", "admin", "wrong", false},
		{"wrong username", "root", "password", false},
		{"empty", "", "", false},
		{"case matters", "Admin", "password", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Authenticate(tt.username, tt.password); got != tt.want {
				t.Errorf("Authenticate(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestNewStaticRequiresCredentials(t *testing.T) {
	if _, err := NewStatic("", "password"); err == nil {
		t.Error("expected error for empty username")
	}
	if _, err := NewStatic("admin", ""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s, err := NewSessions("test-secret")
	if err != nil {
		t.Fatalf("NewSessions: %v", err)
	}

	token, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	user, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if user != "admin" {
		t.Errorf("Verify() = %q, want admin", user)
	}
}

func TestSessionRejectsForgedToken(t *testing.T) {
	signer, _ := NewSessions("secret-a")
	verifier, _ := NewSessions("secret-b")

	token, err := signer.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := verifier.Verify("not-a-token"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for garbage, got %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	s, _ := NewSessions("secret")
	start := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start }

	token, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	s.now = func() time.Time { return start.Add(SessionTTL + time.Minute) }
	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected expired token to be rejected, got %v", err)
	}
}
