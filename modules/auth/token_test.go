package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Secret: "test-secret-key",
		TTL:    48 * time.Hour,
		Issuer: "test-issuer",
	}
}

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	token, err := manager.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	userID, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Validate() userID = %v, want user-123", userID)
	}
}

func TestTokenManager_ClaimsCarryIDAndTwoDayExpiry(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	manager := NewTokenManager(testTokenConfig())
	manager.now = func() time.Time { return issued }

	token, err := manager.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("id claim = %q, want user-1", claims.UserID)
	}
	if got := claims.ExpiresAt.Time.Sub(issued); got != 48*time.Hour {
		t.Errorf("lifetime = %v, want 48h", got)
	}
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	issued := time.Now().Add(-72 * time.Hour)
	manager.now = func() time.Time { return issued }

	token, err := manager.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	manager.now = time.Now
	if _, err := manager.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Validate() error = %v, want ErrExpiredToken", err)
	}
}

func TestTokenManager_InvalidTokens(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	other := NewTokenManager(TokenConfig{Secret: "another-secret", TTL: time.Hour})

	foreign, err := other.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	valid, err := manager.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString(none) error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong secret", foreign},
		{"tampered payload", tampered},
		{"alg none", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
