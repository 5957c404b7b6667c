// Package session issues the opaque identities guest carts hang off.
// A session token maps to an identity string for its TTL; the cart row
// keyed by that identity outlives nothing but the token.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

type Service struct {
	tokens *tokenManager
	ttl    time.Duration
}

func New(ttl time.Duration) *Service {
	return &Service{
		tokens: newTokenManager(),
		ttl:    ttl,
	}
}

// Issue mints a fresh guest identity and a token that resolves to it.
func (s *Service) Issue(ctx context.Context) (token, identity string, err error) {
	identity = "guest:" + uuid.NewString()
	token, err = s.tokens.Issue(identity, s.ttl)
	if err != nil {
		return "", "", err
	}
	return token, identity, nil
}

// Lookup resolves a token to its identity, or ErrInvalidToken when the
// token is unknown or expired.
func (s *Service) Lookup(ctx context.Context, token string) (string, error) {
	identity, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return identity, nil
}

// TTLSeconds reports the session lifetime for response bodies.
func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
