package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenExpiryExtractsExpClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "bykerz-iot-001",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("some-signing-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	got, ok := TokenExpiry(signed)
	if !ok {
		t.Fatal("expected expiry to be extracted")
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry = %v, want %v", got, exp)
	}
}

func TestTokenExpiryOpaqueCredential(t *testing.T) {
	if _, ok := TokenExpiry("plain-api-key-123"); ok {
		t.Fatal("an opaque API key must not yield an expiry")
	}
}

func TestTokenExpiryNoExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "a"})
	signed, err := token.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	if _, ok := TokenExpiry(signed); ok {
		t.Fatal("a token without exp must not yield an expiry")
	}
}
