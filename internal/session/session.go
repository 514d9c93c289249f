package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The client never holds the signing secret, so the session cookie is only
// inspected, not verified. Expiry read locally decides when a fresh
// check-auth round trip is worth making.

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func ClaimsFromToken(tokenStr string) (*Claims, error) {
	var claims Claims
	_, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// ExpiresAt returns the token's expiry, or an error when the token carries
// no exp claim.
func ExpiresAt(tokenStr string) (time.Time, error) {
	claims, err := ClaimsFromToken(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether the session token is past (or within leeway of)
// its expiry. Unparseable tokens count as expired.
func Expired(tokenStr string, leeway time.Duration) bool {
	exp, err := ExpiresAt(tokenStr)
	if err != nil {
		return true
	}
	return !time.Now().Add(leeway).Before(exp)
}
