// FILE: internal/pkg/token/codec.go
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Verify never returns a subject alongside an error.
var (
	ErrExpired      = errors.New("token expired")
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
)

// Codec issues and verifies signed session tokens. The signing secret is
// injected once at construction; the codec never reads ambient environment.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token embedding the subject with the configured lifetime.
func (c *Codec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": subject,
		"iat":     now.Unix(),
		"exp":     now.Add(c.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify returns the subject of a valid token. Fails closed: any structural,
// signature or expiry problem yields an error and an empty subject.
func (c *Codec) Verify(tokenStr string) (string, error) {
	t, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return "", ErrBadSignature
		default:
			return "", ErrMalformed
		}
	}
	if !t.Valid {
		return "", ErrBadSignature
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrMalformed
	}
	subject, ok := claims["user_id"].(string)
	if !ok || subject == "" {
		return "", ErrMalformed
	}
	return subject, nil
}
