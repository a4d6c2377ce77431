package jwt

import (
	"testing"
	"time"

	jwtgo "github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

func sign(t *testing.T, claims jwtgo.Claims) string {
	t.Helper()
	token, err := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims).SignedString([]byte("whatever"))
	require.NoError(t, err)
	return token
}

func TestDecodeUnverified(t *testing.T) {
	token := sign(t, Claims{
		Email: "t@diu.edu.bd",
		Role:  "authenticated",
		StandardClaims: jwtgo.StandardClaims{
			Subject:   "u-1",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	claims, err := DecodeUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID())
	assert.Equal(t, "t@diu.edu.bd", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
	assert.False(t, claims.Expired(time.Now()))
}

func TestDecodeUnverifiedGarbage(t *testing.T) {
	_, err := DecodeUnverified("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
}

func TestExpired(t *testing.T) {
	now := time.Now()
	for name, tt := range map[string]struct {
		exp     int64
		expired bool
	}{
		"future":    {exp: now.Add(time.Hour).Unix(), expired: false},
		"past":      {exp: now.Add(-time.Hour).Unix(), expired: true},
		"no expiry": {exp: 0, expired: true},
	} {
		t.Run(name, func(t *testing.T) {
			c := Claims{StandardClaims: jwtgo.StandardClaims{ExpiresAt: tt.exp}}
			assert.Equal(t, tt.expired, c.Expired(now))
		})
	}
}
