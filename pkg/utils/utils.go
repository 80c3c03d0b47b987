package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const objectIDLength = 24

// IsObjectID reports whether s matches the backend's id format:
// exactly 24 hex characters.
func IsObjectID(s string) bool {
	if len(s) != objectIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func FormatChatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TokenExpiry reads the exp claim from a JWT without verifying the
// signature. Verification happens server-side; the client only needs the
// deadline for its own expiry bookkeeping.
func TokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
