package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword err: %v", err)
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Fatalf("CheckPassword rejected the right password: %v", err)
	}
	if err := CheckPassword(hash, "wrong horse"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}

	userID, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("unexpected subject: %q", userID)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Generate("user-123")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}

	if _, err := NewTokenService("secret-b", time.Hour).Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if _, err := svc.Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.Parse("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
