// Package session tracks the admin's login state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrLoginFailed = errors.New("login failed")

// LoginClient is the slice of the API client the session needs.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Session holds the bearer token obtained from the login endpoint. The
// token's expiry is read from its claims without signature verification;
// the server owns validation, the client only needs to know when to
// prompt again.
type Session struct {
	client LoginClient

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func New(client LoginClient) *Session {
	return &Session{client: client}
}

// Login exchanges credentials for a token. Any failure, transport or
// rejection, maps to ErrLoginFailed for an inline error display; the
// underlying cause is kept in the chain for diagnostics.
func (s *Session) Login(ctx context.Context, username, password string) error {
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return errors.Join(ErrLoginFailed, err)
	}

	var expiresAt time.Time
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil {
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()
	return nil
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// LoggedIn reports whether a token is held and not yet expired.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return false
	}
	return s.expiresAt.IsZero() || time.Now().Before(s.expiresAt)
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}
