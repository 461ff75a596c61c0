package core

import (
	"errors"
	"fmt"
	"time"
)

// Authentication Related Errors
var (
	// User errors
	ErrUserExists         = errors.New("user already exists")       // 409 Conflict
	ErrUserNotFound       = errors.New("user not found")            // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid email or password") // 401 Unauthorized
)

// Session errors
var (
	ErrMissingAuthHeader = errors.New("missing authorization header") // 401
	ErrInvalidSession    = errors.New("invalid session token")        // 401
	ErrSessionExpired    = errors.New("session expired")              // 401
)

// Verification token errors
var (
	ErrTokenInvalid = errors.New("invalid or expired reset token")                        // 400
	ErrTokenExpired = errors.New("reset token has expired, please request a new one")     // 400
	ErrStateInvalid = errors.New("invalid or expired state, please restart the sign-in") // 400
)

// Validation errors (client input)
var (
	ErrEmailRequired    = errors.New("email is required")                            // 400
	ErrTokenRequired    = errors.New("token is required")                            // 400
	ErrPasswordRequired = errors.New("password is required")                         // 400
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long") // 400
	ErrNameRequired     = errors.New("name is required")                             // 400
	ErrNameTooLong      = errors.New("name is too long")                             // 400
)

// Config errors (server-side configuration)
var (
	ErrDBAdapterRequired = errors.New("database adapter is required") // 500
	ErrMailerRequired    = errors.New("mailer is required")           // 500
	ErrSecretRequired    = errors.New("secret is required")           // 500
	ErrSecretTooShort    = errors.New("secret too short")             // 500
)

// Infrastructure errors
var (
	ErrMailSendFailed = errors.New("failed to send email, please try again later") // 500
	ErrOAuthDisabled  = errors.New("oauth provider is not configured")             // 404
)

// CooldownError rejects a repeated reset request inside the rate-limit
// window. Wait is the remaining cooldown; handlers render it in whole
// minutes, rounded up.
type CooldownError struct {
	Wait time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d minute(s) before requesting another reset", e.WaitMinutes())
}

// WaitMinutes returns the remaining wait as a ceiling of minutes, never
// less than 1.
func (e *CooldownError) WaitMinutes() int {
	m := int((e.Wait + time.Minute - 1) / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}
