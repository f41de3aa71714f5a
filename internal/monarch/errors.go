package monarch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedOperation is returned by Call when the requested operation
// is not declared in the client's operation table.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// ErrMissingCredentials is returned before any login attempt when email or
// password is absent from configuration. It is deliberately distinct from a
// failed login so callers can tell a setup problem from a rejected one.
var ErrMissingCredentials = errors.New("missing credentials: set email and password in config or MONARCH_EMAIL/MONARCH_PASSWORD")

// LoginError wraps a failed login attempt with a user-facing hint derived
// from the upstream message.
type LoginError struct {
	Hint  string
	Cause error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("%s: %v", e.Hint, e.Cause)
}

func (e *LoginError) Unwrap() error { return e.Cause }

// classifyLoginError maps an upstream login failure onto a user-facing hint
// by case-insensitive substring matching. Unmatched messages fall back to a
// generic login-failed hint carrying the original text.
func classifyLoginError(err error) error {
	msg := strings.ToLower(err.Error())

	var hint string
	switch {
	case strings.Contains(msg, "forbidden") || strings.Contains(msg, "invalid credentials") || strings.Contains(msg, "403"):
		hint = "login rejected: check your email and password"
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401"):
		hint = "login unauthorized: your session may have been revoked, verify your credentials"
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many") || strings.Contains(msg, "429"):
		hint = "login rate-limited: wait a few minutes before retrying"
	case strings.Contains(msg, "mfa") || strings.Contains(msg, "multi-factor") || strings.Contains(msg, "totp") || strings.Contains(msg, "otp"):
		hint = "multi-factor authentication required: set an MFA secret in config or MONARCH_MFA_SECRET"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "network") || strings.Contains(msg, "connection"):
		hint = "could not reach the Monarch API: check your network connection"
	default:
		hint = "login failed"
	}

	return &LoginError{Hint: hint, Cause: err}
}
