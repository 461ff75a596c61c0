package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lborres/vestibule/core"
	"github.com/lborres/vestibule/pkg/crypto"
)

// Provider identifiers for accounts.
const (
	ProviderCredential = "credential"
	ProviderMagicLink  = "magiclink"
)

// AuthResult contains the authenticated user and their signed session claim.
type AuthResult struct {
	User      *core.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// SignUpInput contains the data needed to register a new user
type SignUpInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Image    *string `json:"image,omitempty"`
}

// SignInInput contains the credentials for authentication
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService handles credential sign-up and sign-in.
type AuthService struct {
	db        core.AuthStorage
	passwords crypto.PasswordHandler
	sessions  *SessionService
	ids       *crypto.NanoIDGenerator
}

func NewAuthService(db core.AuthStorage, passwords crypto.PasswordHandler, sessions *SessionService) *AuthService {
	ids, _ := crypto.NewNanoID()
	return &AuthService{
		db:        db,
		passwords: passwords,
		sessions:  sessions,
		ids:       ids,
	}
}

// SignUp registers a new user with email and password
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, core.ErrEmailRequired
	}
	if input.Password == "" {
		return nil, core.ErrPasswordRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, core.ErrPasswordTooShort
	}

	existing, err := s.db.GetUserByEmail(ctx, email)
	if err != nil && err != core.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, core.ErrUserExists
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}
	user := &core.User{
		ID:    userID,
		Email: email,
		Name:  strings.TrimSpace(input.Name),
		Image: input.Image,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	accountID, err := s.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}
	account := &core.Account{
		ID:         accountID,
		UserID:     user.ID,
		ProviderID: ProviderCredential,
		AccountID:  user.ID, // For credential provider, account ID = user ID
		Password:   &hash,
	}
	if err := s.db.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.startSession(user)
}

// SignIn authenticates a user with email and password.
//
// Absent user, missing credential account, and nil password hash all
// collapse into ErrInvalidCredentials: an account that never set a password
// (OAuth or magic-link only) must not be signable-in by password, and the
// caller must not be able to tell which case occurred.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, core.ErrEmailRequired
	}
	if input.Password == "" {
		return nil, core.ErrPasswordRequired
	}

	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if err == core.ErrUserNotFound {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accounts, err := s.db.GetAccountsByUserAndProvider(ctx, user.ID, ProviderCredential)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accounts) == 0 || accounts[0].Password == nil {
		return nil, core.ErrInvalidCredentials
	}

	valid, err := s.passwords.Verify(input.Password, *accounts[0].Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	return s.startSession(user)
}

// SignOut exists for surface symmetry. Sessions are stateless signed claims,
// so there is nothing to revoke server-side; clients discard the token.
func (s *AuthService) SignOut(token string) error {
	if token == "" {
		return core.ErrInvalidSession
	}
	return nil
}

func (s *AuthService) startSession(user *core.User) (*AuthResult, error) {
	token, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
