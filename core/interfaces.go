package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// UserStorage defines user-related database operations
type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id string) error
}

// AccountStorage defines account-related database operations
type AccountStorage interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountsByUserAndProvider(ctx context.Context, userID, providerID string) ([]*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
	DeleteAccount(ctx context.Context, id string) error
}

// TokenStorage defines verification-token database operations.
// Lookup is always by token value; there is no composite-key path.
type TokenStorage interface {
	CreateVerificationToken(ctx context.Context, t *VerificationToken) error
	GetVerificationToken(ctx context.Context, token string) (*VerificationToken, error)
	DeleteVerificationToken(ctx context.Context, token string) error
	// DeleteVerificationTokens removes every token issued to the identifier
	// for the given purpose, enforcing the one-valid-token invariant.
	DeleteVerificationTokens(ctx context.Context, identifier, purpose string) (int, error)
}

type AuthStorage interface {
	UserStorage
	AccountStorage
	TokenStorage
}

// ============================================
// MAIL PORT
// ============================================

// Mailer delivers templated email. Implementations own transport concerns
// (SMTP connection, retries) and render both HTML and plain-text bodies;
// a send error here surfaces as a 500.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
	SendMagicLink(ctx context.Context, to, linkURL string) error
}

// ============================================
// STATE CACHE PORT
// ============================================

// StateCache holds short-lived single-use nonces (OAuth state values).
type StateCache interface {
	Put(state string) error
	// Take consumes the state, reporting whether it was present and unexpired.
	Take(state string) bool
}

// SessionConfig configures signed session claims.
type SessionConfig struct {
	MaxAge time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 24 * time.Hour,
	}
}

// OAuthConfig describes one delegated OAuth provider. The protocol itself is
// handled by golang.org/x/oauth2; this only names the endpoints.
type OAuthConfig struct {
	ProviderID   string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
}
