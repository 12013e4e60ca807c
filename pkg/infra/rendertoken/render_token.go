package rendertoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid render token")
	ErrExpiredToken = errors.New("expired render token")
)

// Manager issues and resolves the signed render tokens carried by decoy
// forms. A token proves when the page was rendered; the timing detector
// derives the form-fill duration from it.
//
//go:generate mockery --name=Manager --dir=. --output=mocks/ --filename=render_token_mock.go --case=underscore --with-expecter
type (
	Manager interface {
		Issue(renderedAt time.Time) (string, error)
		Resolve(tokenString string) (time.Time, error)
	}
	manager struct {
		secret []byte
		maxAge time.Duration
	}
)

type claims struct {
	jwt.RegisteredClaims
}

func NewManager(secret string, maxAge time.Duration) Manager {
	return &manager{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// Issue signs a token whose issued-at claim is the render instant.
func (m *manager) Issue(renderedAt time.Time) (string, error) {
	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(renderedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Resolve verifies the signature and returns the render instant. Tokens
// older than the configured max age are rejected so replayed pages do not
// produce arbitrarily large elapsed times.
func (m *manager) Resolve(tokenString string) (time.Time, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.secret, nil
		},
	)
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if !token.Valid {
		return time.Time{}, ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok || c.IssuedAt == nil {
		return time.Time{}, ErrInvalidToken
	}

	issuedAt := c.IssuedAt.Time
	if m.maxAge > 0 && time.Since(issuedAt) > m.maxAge {
		return time.Time{}, ErrExpiredToken
	}

	return issuedAt, nil
}
