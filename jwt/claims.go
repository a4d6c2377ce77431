package jwt

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

// Claims is the subset of the identity provider's access token the client
// cares about. The signature is the provider's business: the API verifies it
// server-side, the client only reads the payload to gate UI.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// DecodeUnverified extracts the claims of an access token without checking
// its signature.
func DecodeUnverified(token string) (*Claims, error) {
	claims := Claims{}

	parser := jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, errors.New("could not parse token", errors.Unauthorized(), errors.WithCause(err))
	}

	return &claims, nil
}

// Expired reports whether the token expiry has passed. A token without an
// expiry is treated as expired rather than eternal.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == 0 {
		return true
	}
	return now.Unix() >= c.ExpiresAt
}

// UserID returns the subject of the token, the provider-side user identity.
func (c *Claims) UserID() string { return c.Subject }
