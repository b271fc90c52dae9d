// Package token inspects Sealog API tokens on the client side.
//
// Clients hold no server secret, so tokens are decoded without
// signature verification: this is a sanity check before use, not an
// authentication step. The server keeps verifying every call.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("token: malformed sealog token")

// Claims are the sealog-relevant claims of an API token.
type Claims struct {
	// UserID is the server-side account id the token acts as.
	UserID string

	// Roles granted to the token, like event_logger or admin.
	Roles []string

	// ExpiresAt is nil for non-expiring tokens.
	ExpiresAt *time.Time
}

func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Expired reports whether the token is past its exp claim at now.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// Inspect decodes the claims of a sealog JWT.
func Inspect(tokenString string) (Claims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %s", ErrMalformedToken, err)
	}

	decoded := Claims{}

	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return Claims{}, fmt.Errorf("%w: no id claim", ErrMalformedToken)
	}
	decoded.UserID = id

	if scope, ok := claims["scope"].([]any); ok {
		for _, role := range scope {
			if r, ok := role.(string); ok {
				decoded.Roles = append(decoded.Roles, r)
			}
		}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		decoded.ExpiresAt = &exp.Time
	}

	return decoded, nil
}
