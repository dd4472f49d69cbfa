package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	a := New("test-secret", time.Hour)

	token, err := a.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	a := New("test-secret", time.Hour)

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := a.ValidateToken(bad); err == nil {
			t.Errorf("ValidateToken(%q) = nil error, want rejection", bad)
		}
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	a := New("secret-one", time.Hour)
	b := New("secret-two", time.Hour)

	token, err := a.GenerateToken(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret validated")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	a := New("test-secret", -time.Minute)

	token, err := a.GenerateToken(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.ValidateToken(token); err == nil {
		t.Error("expired token validated")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in the clear")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}
