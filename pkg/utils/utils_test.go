package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIsObjectID(t *testing.T) {
	valid := []string{
		"507f1f77bcf86cd799439011",
		"ABCDEF0123456789abcdef01",
	}
	for _, id := range valid {
		if !IsObjectID(id) {
			t.Errorf("expected %q to be a valid object id", id)
		}
	}

	invalid := []string{
		"",
		"507f1f77bcf86cd79943901",   // 23 chars
		"507f1f77bcf86cd7994390111", // 25 chars
		"507f1f77bcf86cd79943901g",  // non-hex
		"507f1f77bcf86cd79943901 ",
	}
	for _, id := range invalid {
		if IsObjectID(id) {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "507f1f77bcf86cd799439011",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	got, ok := TokenExpiry(signed)
	if !ok {
		t.Fatal("expected expiry to be readable")
	}
	if !got.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, got)
	}

	if _, ok := TokenExpiry("not-a-token"); ok {
		t.Error("expected malformed token to have no expiry")
	}
}
