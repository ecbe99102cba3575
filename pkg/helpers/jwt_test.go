package helpers

import (
	"strings"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, exp, err := m.GenerateAccessToken("u1", "ada@example.com", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %v", exp)
	}
	claims, err := m.ParseAccessToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "ada@example.com" || claims.SessionID != "s1" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestJWTRejectsWrongSecretAndExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, _, _ := m.GenerateAccessToken("u1", "a@b.c", "s1")

	other := NewJWTManager("other", time.Hour)
	if _, err := other.ParseAccessToken(tok); err == nil {
		t.Fatalf("expected signature failure")
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Fatalf("expected expiry failure")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	for _, tok := range []string{"", "abc", strings.Repeat("x.", 3)} {
		if _, err := m.ParseAccessToken(tok); err == nil {
			t.Fatalf("expected %q to be rejected", tok)
		}
	}
}
