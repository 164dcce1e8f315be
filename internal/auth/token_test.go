// AngelaMos | 2026
// token_test.go

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/orballo/words-backend/internal/core"
)

func newTestTokenManager(t *testing.T, expire time.Duration) *TokenManager {
	t.Helper()

	m, err := NewTokenManager(
		"test-secret-with-enough-entropy-for-hs256",
		"words-backend-test",
		expire,
	)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	return m
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}

		if len(code) != codeLength {
			t.Fatalf("code %q has length %d, want %d",
				code, len(code), codeLength)
		}

		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet",
					code, r)
			}
		}

		seen[code] = true
	}

	if len(seen) < 90 {
		t.Errorf("only %d distinct codes out of 100", len(seen))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestTokenManager(t, time.Hour)

	signed, err := m.IssueToken(42, "student", "ana@example.com", "ana")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := m.VerifyToken(context.Background(), signed)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "student" {
		t.Errorf("Role = %q, want student", claims.Role)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("Email = %q, want ana@example.com", claims.Email)
	}
	if claims.Username != "ana" {
		t.Errorf("Username = %q, want ana", claims.Username)
	}
}

func TestVerifyTokenWrongKey(t *testing.T) {
	issuer := newTestTokenManager(t, time.Hour)

	other, err := NewTokenManager(
		"a-completely-different-secret-value",
		"words-backend-test",
		time.Hour,
	)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	signed, err := issuer.IssueToken(1, "student", "a@b.c", "a")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := other.VerifyToken(context.Background(), signed); err == nil {
		t.Fatal("VerifyToken accepted a token signed with another key")
	} else if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	m := newTestTokenManager(t, -time.Minute)

	signed, err := m.IssueToken(1, "student", "a@b.c", "a")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	_, err = m.VerifyToken(context.Background(), signed)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	m := newTestTokenManager(t, time.Hour)

	_, err := m.VerifyToken(context.Background(), "not.a.token")
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestLoginCodeExpiry(t *testing.T) {
	tests := []struct {
		name    string
		age     time.Duration
		ttl     time.Duration
		expired bool
	}{
		{"fresh", time.Minute, 5 * time.Minute, false},
		{"at boundary", 4 * time.Minute, 5 * time.Minute, false},
		{"stale", 6 * time.Minute, 5 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := LoginCode{
				Email:    "a@b.c",
				Code:     "ABCDEFGH12",
				IssuedAt: time.Now().Add(-tt.age),
			}

			if got := code.IsExpired(tt.ttl); got != tt.expired {
				t.Errorf("IsExpired = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestLoginCodeMatches(t *testing.T) {
	code := LoginCode{Code: "ABCDEFGH12"}

	if !code.Matches("ABCDEFGH12") {
		t.Error("Matches rejected the right code")
	}
	if code.Matches("ABCDEFGH13") {
		t.Error("Matches accepted a wrong code")
	}
	if code.Matches("") {
		t.Error("Matches accepted an empty code")
	}
}
