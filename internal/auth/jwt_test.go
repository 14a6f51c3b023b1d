package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	token, err := GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}

	// Token signed under a different secret must not validate
	token, err := GenerateToken(1, "bob")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	InitJWT("other-secret", time.Hour)
	if _, err := ValidateToken(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}
