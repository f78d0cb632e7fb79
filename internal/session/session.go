// Package session holds the authenticated user's bearer token between the
// login OTP flow and the backend client.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("session: not authenticated")

// User is the profile returned by the backend on login.
type User struct {
	ID    string
	Email string
	Name  string
}

// Store is the owned session state. The zero value is unauthenticated.
type Store struct {
	mu          sync.RWMutex
	accessToken string
	user        User
}

func NewStore() *Store {
	return &Store{}
}

// Set installs the credentials received after OTP verification.
func (s *Store) Set(accessToken string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.user = user
}

// Clear drops the session on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.user = User{}
}

// Token returns the bearer token, or ErrNoSession when unauthenticated.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accessToken == "" {
		return "", ErrNoSession
	}
	return s.accessToken, nil
}

// User returns the authenticated user's profile.
func (s *Store) User() (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accessToken == "" {
		return User{}, ErrNoSession
	}
	return s.user, nil
}

// Expired reports whether the stored token's exp claim has passed. The token
// is parsed unverified: the backend is the signing authority and rejects bad
// tokens anyway, this only decides whether to send the user back to login.
// Malformed tokens and tokens without an exp claim count as expired.
func (s *Store) Expired(now time.Time) bool {
	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()
	if token == "" {
		return true
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return now.After(exp.Time)
}
