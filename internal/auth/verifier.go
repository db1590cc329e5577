// Package auth verifies bearer tokens for the control API. Tokens are
// HMAC-signed JWTs carrying a scope claim. When no signing secret is
// configured the middleware passes all requests through, which is the
// development-mode default.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes recognized in token claims.
const (
	ScopeView    = "view"
	ScopeControl = "control"
)

var (
	// ErrInvalidToken covers malformed, expired, or badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInsufficientScope means the token is valid but lacks the scope
	// the route requires.
	ErrInsufficientScope = errors.New("insufficient scope")
)

// Claims is the JWT payload the verifier expects.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Verifier checks token signatures and scopes.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier using secret for HMAC validation.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses tokenString and returns its claims. Only HMAC signing
// methods are accepted.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireScope returns nil when claims satisfy the required scope. The
// control scope implies view.
func RequireScope(claims *Claims, required string) error {
	if claims.Scope == required {
		return nil
	}
	if required == ScopeView && claims.Scope == ScopeControl {
		return nil
	}
	return ErrInsufficientScope
}
