package media

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Signer issues and checks the tokens carried by direct links.
type Signer struct {
	secret []byte
	expiry time.Duration
}

// NewSigner returns a Signer. A zero expiry issues tokens that never expire.
func NewSigner(secret string, expiry time.Duration) *Signer {
	return &Signer{secret: []byte(secret), expiry: expiry}
}

func (s *Signer) Sign(path string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  path,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiry))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign link: %w", err)
	}
	return token, nil
}

// Verify checks that token is valid, unexpired and issued for path.
func (s *Signer) Verify(token, path string) error {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !parsed.Valid || claims.Subject != path {
		return ErrInvalidSignature
	}
	return nil
}
