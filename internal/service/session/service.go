// Package session issues the opaque browser session ids that key carts.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session id")

type Service struct {
	ttl time.Duration
}

// New returns a service whose ids are meant to live for ttl in the browser.
func New(ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{ttl: ttl}
}

// Issue returns a fresh random session id.
func (s *Service) Issue() string {
	return uuid.NewString()
}

// Lookup validates a session id presented by the browser and returns its
// canonical form.
func (s *Service) Lookup(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id.Version() != 4 {
		return "", ErrInvalidSession
	}
	return id.String(), nil
}

// MaxAgeSeconds is the cookie lifetime.
func (s *Service) MaxAgeSeconds() int {
	return int(s.ttl.Seconds())
}
