package monarch

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Credentials are the login inputs supplied by configuration.
type Credentials struct {
	Email     string
	Password  string
	MFASecret string
}

// Validate reports a configuration error when required fields are missing.
func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// loginFunc matches Client.Login; swapped in tests.
type loginFunc func(ctx context.Context, email, password, mfaSecret string) error

// Session owns the process-wide authenticated flag and the login gate.
// Concurrent callers racing to authenticate share one in-flight login
// attempt; a failure leaves the session unauthenticated so a later call may
// retry.
type Session struct {
	creds  Credentials
	login  loginFunc
	authed atomic.Bool
	flight singleflight.Group
}

// NewSession creates a session gate over the client's login call.
func NewSession(client *Client, creds Credentials) *Session {
	return &Session{creds: creds, login: client.Login}
}

// Ensure authenticates on first use. Credential presence is checked before
// any network call so a setup problem surfaces as a configuration error, not
// an authentication failure.
func (s *Session) Ensure(ctx context.Context) error {
	if s.authed.Load() {
		return nil
	}
	if err := s.creds.Validate(); err != nil {
		return err
	}

	_, err, _ := s.flight.Do("login", func() (any, error) {
		// A caller that waited on a winning flight sees the flag set.
		if s.authed.Load() {
			return nil, nil
		}
		if err := s.login(ctx, s.creds.Email, s.creds.Password, s.creds.MFASecret); err != nil {
			return nil, classifyLoginError(err)
		}
		s.authed.Store(true)
		return nil, nil
	})
	return err
}

// Authenticated reports whether a login has succeeded.
func (s *Session) Authenticated() bool {
	return s.authed.Load()
}
