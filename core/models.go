package core

import "time"

// User represents a user account in the system
//
// This is the "identity" - who someone is. Credentials (password hashes,
// provider tokens) live on Account rows, never here.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Name          string    `json:"name"`
	Image         *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Account represents an authentication method
//
// This is the "credential" - how someone proves who they are
type Account struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	ProviderID   string     `json:"providerId"` // "credential", "magiclink", "google"
	AccountID    string     `json:"accountId"`
	Password     *string    `json:"-"` // Never expose in JSON
	AccessToken  *string    `json:"-"` // Never expose in JSON
	RefreshToken *string    `json:"-"` // Never expose in JSON
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Token purposes. A verification token is only redeemable by the flow that
// issued it.
const (
	TokenPurposeReset     = "password_reset"
	TokenPurposeMagicLink = "magic_link"
)

// VerificationToken is a single-use emailed secret scoped to one email
// address (the identifier). The token value is globally unique and is the
// sole lookup key; the identifier is derived from the found row.
type VerificationToken struct {
	Identifier string    `json:"identifier"`
	Token      string    `json:"-"` // Never expose in JSON
	Purpose    string    `json:"purpose"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// SessionData is the reconciled identity handed to callers: the fields come
// from the user row fetched during Resolve, not from the signed claim.
type SessionData struct {
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}
