package auth

import (
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims describes the backend-issued JWT payload fields this client reads.
type Claims struct {
	IsStaff bool     `json:"is_staff"`
	Groups  []string `json:"groups,omitempty"`
	jwt.RegisteredClaims
}

var errEmptyToken = errors.New("empty token")

// DecodeClaims extracts claims from an access token without verifying its
// signature. The backend signs and verifies tokens; this side only reads
// claims to pick routes, so a forged token buys nothing beyond a page whose
// backend calls will all be rejected. Not an authorization boundary.
func DecodeClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, errEmptyToken
	}
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// IsAdminToken reports whether the token carries staff privilege: either the
// staff flag or membership in the "admin" group, case-insensitive.
func IsAdminToken(token string) bool {
	claims, err := DecodeClaims(token)
	if err != nil {
		return false
	}
	if claims.IsStaff {
		return true
	}
	for _, group := range claims.Groups {
		if strings.EqualFold(group, "admin") {
			return true
		}
	}
	return false
}
