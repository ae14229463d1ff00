package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the exp claim from a JWT-shaped credential without
// verifying its signature. The edge never holds the backend's signing key, so
// stored credentials stay opaque for authentication purposes; this exists only
// so callers can warn when a device keeps using a token the backend has likely
// already expired. Returns ok=false for non-JWT credentials or tokens without
// an exp claim.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
