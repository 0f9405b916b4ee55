// Package tokenx implements the signed-token layer of the session protocol:
// compact HS256 JWTs carrying a user identity claim and an expiry. Access and
// refresh tokens use separate Codec instances with separate secrets, so a
// refresh token can never be replayed as an access token.
package tokenx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Fixed protocol lifetimes. Access tokens are short-lived and stateless;
// refresh tokens ride the protected cookie.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// ErrInvalidToken is returned for any verification failure: bad signature,
// malformed structure, wrong algorithm, or expiry. Callers never learn which.
var ErrInvalidToken = errors.New("tokenx: invalid token")

// Claims is the identity payload carried inside both token kinds.
// Immutable once issued.
type Claims struct {
	jwt.RegisteredClaims

	UserID int64 `json:"userId"`
}

// Codec signs and verifies tokens with a single symmetric secret and a fixed
// TTL. It holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec from a symmetric secret and token lifetime.
func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokenx: signing secret must not be empty")
	}

	c := &Codec{
		secret: make([]byte, len(secret)),
		ttl:    ttl,
	}
	copy(c.secret, secret)
	return c, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Ready reports whether the codec holds a signing secret.
func (c *Codec) Ready() bool { return len(c.secret) > 0 }

// Sign mints a token for the given user, expiring TTL from now.
func (c *Codec) Sign(userID int64) (string, error) {
	return c.SignAt(userID, time.Now())
}

// SignAt mints a token with an explicit issue time. Exposed so tests can
// construct already-expired tokens; production callers use Sign.
func (c *Codec) SignAt(userID int64, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        newJTI(),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("tokenx: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Every failure
// mode collapses into ErrInvalidToken; the underlying cause is wrapped for
// logging but must not be surfaced to clients.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}

// newJTI returns a URL-safe random identifier for the "jti" claim. It is what
// makes two otherwise-identical tokens bit-for-bit distinct, which the refresh
// rotation guarantee relies on.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
