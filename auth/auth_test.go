package auth

import (
	"errors"
	"testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenIssueVerify(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("test-secret")
	signed, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	userID, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected user-123, got %q", userID)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := NewTokens("secret-a").Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := NewTokens("secret-b").Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("test-secret")
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}
