package utils

import (
	"testing"

	"seva-donation-platform/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}

	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateJWT("user-1", "donor@example.com", "Donor One", "donor")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return config.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token failed to parse: %v", err)
	}

	if claims["user_id"] != "user-1" {
		t.Errorf("user_id = %v", claims["user_id"])
	}
	if claims["role"] != "donor" {
		t.Errorf("role = %v", claims["role"])
	}
	if claims["email"] != "donor@example.com" {
		t.Errorf("email = %v", claims["email"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("token has no expiry")
	}
}
