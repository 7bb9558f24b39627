package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HS256 needs at least a 256-bit key.
const minKeyLen = 32

var (
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrTokenSignature   = errors.New("token signature is invalid")
	ErrTokenUnsupported = errors.New("token algorithm is unsupported")
)

// TokenCodec mints and verifies self-contained HS256 access tokens.
// Pure function of token + key + clock: no storage, no I/O.
type TokenCodec struct {
	key []byte
	now func() time.Time
}

func NewTokenCodec(secret string) *TokenCodec {
	if len(secret) < minKeyLen {
		// Pad short secrets with spaces so the server still boots.
		// Weak fallback, not a recommendation: run with a real 32+ byte key.
		secret += strings.Repeat(" ", minKeyLen-len(secret))
	}
	return &TokenCodec{key: []byte(secret), now: time.Now}
}

// Mint signs a token for subject with issued-at = now and expiry = now+ttl.
// Extra claims are merged in; sub/iat/exp win on collision.
func (c *TokenCodec) Mint(subject string, claims map[string]any, ttl time.Duration) (string, error) {
	now := c.now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["sub"] = subject
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString(c.key)
}

// Verify checks signature and expiry and returns the embedded claims.
func (c *TokenCodec) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenUnsupported
		}
		return c.key, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, ErrTokenUnsupported):
		return nil, ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrTokenSignature
	default:
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// Extract projects a single claim out of a verified token. Same failure
// modes as Verify; a missing field yields nil.
func (c *TokenCodec) Extract(tokenString, field string) (any, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return claims[field], nil
}

// Subject returns the sub claim of a verified token.
func (c *TokenCodec) Subject(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}
