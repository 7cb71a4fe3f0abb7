package jwtutil

import (
	"testing"

	"pos-service/pkg/config"
)

func initTestConfig() {
	Initialize(&config.JWTConfig{
		AccessSigningKey:       "access-secret",
		RefreshSigningKey:      "refresh-secret",
		AccessExpirationHours:  1,
		RefreshExpirationHours: 720,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestConfig()

	token, err := GenerateAccessToken(42, "user@example.com", "pharmacist", 3, 7)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "user@example.com" || claims.Role != "pharmacist" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.TenantID != 3 || claims.StoreID != 7 {
		t.Errorf("tenant/store = %d/%d", claims.TenantID, claims.StoreID)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q", claims.Subject)
	}
}

func TestTokenFamiliesAreDistinct(t *testing.T) {
	initTestConfig()

	access, err := GenerateAccessToken(1, "a@example.com", "admin", 1, 0)
	if err != nil {
		t.Fatalf("generate access: %v", err)
	}
	refresh, err := GenerateRefreshToken(1, "a@example.com", "admin", 1, 0)
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}

	// Each family only validates against its own secret
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Errorf("access token accepted as refresh token")
	}
	if _, err := ValidateAccessToken(refresh); err == nil {
		t.Errorf("refresh token accepted as access token")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	initTestConfig()

	token, err := GenerateAccessToken(1, "a@example.com", "admin", 1, 0)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateAccessToken(tampered); err == nil {
		t.Fatalf("tampered token accepted")
	}
}

func TestGenerateWithoutConfig(t *testing.T) {
	Initialize(nil)
	defer initTestConfig()

	if _, err := GenerateAccessToken(1, "a@example.com", "admin", 1, 0); err == nil {
		t.Fatalf("expected error without configuration")
	}
}
