package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned for bearer tokens that are not parseable JWTs. Such
// tokens are still usable; they just carry no readable claims.
var ErrNotJWT = errors.New("bearer token is not a JWT")

// Claims are the parts of the visitor service's bearer token the portal
// reads. The signature is never checked here: the visitor service is the only
// party that verifies tokens, the portal only uses the claims to size the
// session and label log lines.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Inspect decodes token without verifying it.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// Expiry returns the token's exp claim, if it has one.
func (c *Claims) Expiry() (time.Time, bool) {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// Expired reports whether the exp claim is at or before now.
func (c *Claims) Expired(now time.Time) bool {
	exp, ok := c.Expiry()
	return ok && !now.Before(exp)
}
