package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lborres/vestibule/core"
	"github.com/lborres/vestibule/pkg/crypto"
)

const (
	magicLinkTTL = 24 * time.Hour

	// MagicLinkMessage acknowledges a magic-link request. Unlike password
	// resets, a magic link signs in or registers, so account existence is
	// not inferable and no anti-enumeration collapse is needed.
	MagicLinkMessage = "A sign-in link has been sent to your email."
)

// MagicLinkService implements passwordless email login: a single-use link
// that signs an existing user in, or registers the email as a new verified
// user.
type MagicLinkService struct {
	db       core.AuthStorage
	mailer   core.Mailer
	sessions *SessionService
	baseURL  string
	ids      *crypto.NanoIDGenerator

	now func() time.Time // overridable in tests
}

func NewMagicLinkService(db core.AuthStorage, mailer core.Mailer, sessions *SessionService, baseURL string) *MagicLinkService {
	ids, _ := crypto.NewNanoID()
	return &MagicLinkService{
		db:       db,
		mailer:   mailer,
		sessions: sessions,
		baseURL:  strings.TrimRight(baseURL, "/"),
		ids:      ids,
		now:      time.Now,
	}
}

// Request issues a fresh magic-link token for the email and mails the link.
// Prior magic-link tokens for the identifier are invalidated first.
func (s *MagicLinkService) Request(ctx context.Context, email string) (string, error) {
	identifier := NormalizeEmail(email)
	if identifier == "" || !strings.Contains(identifier, "@") {
		return "", core.ErrEmailRequired
	}

	if _, err := s.db.DeleteVerificationTokens(ctx, identifier, core.TokenPurposeMagicLink); err != nil {
		return "", fmt.Errorf("failed to delete previous tokens: %w", err)
	}

	token, err := crypto.GenerateToken(crypto.DefaultTokenLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now()
	record := &core.VerificationToken{
		Identifier: identifier,
		Token:      token,
		Purpose:    core.TokenPurposeMagicLink,
		ExpiresAt:  now.Add(magicLinkTTL),
		CreatedAt:  now,
	}
	if err := s.db.CreateVerificationToken(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	linkURL := fmt.Sprintf("%s/magic-link?token=%s", s.baseURL, token)
	if err := s.mailer.SendMagicLink(ctx, identifier, linkURL); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrMailSendFailed, err)
	}

	return MagicLinkMessage, nil
}

// Consume redeems a magic-link token, creating the user on first use.
func (s *MagicLinkService) Consume(ctx context.Context, token string) (*AuthResult, error) {
	if token == "" {
		return nil, core.ErrTokenRequired
	}

	record, err := s.db.GetVerificationToken(ctx, token)
	if err != nil {
		if err == core.ErrTokenInvalid {
			return nil, core.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	if record.Purpose != core.TokenPurposeMagicLink {
		return nil, core.ErrTokenInvalid
	}

	if record.Expired(s.now()) {
		if err := s.db.DeleteVerificationToken(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to delete expired token: %w", err)
		}
		return nil, core.ErrTokenExpired
	}

	user, err := s.findOrCreateUser(ctx, record.Identifier)
	if err != nil {
		return nil, err
	}

	if err := s.db.DeleteVerificationToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to delete consumed token: %w", err)
	}

	token2, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResult{User: user, Token: token2, ExpiresAt: expiresAt}, nil
}

// findOrCreateUser resolves the token's identifier to a user, registering a
// new verified user (and a magiclink account) on first sign-in.
func (s *MagicLinkService) findOrCreateUser(ctx context.Context, email string) (*core.User, error) {
	user, err := s.db.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if err != core.ErrUserNotFound {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	userID, err := s.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}
	user = &core.User{
		ID:            userID,
		Email:         email,
		EmailVerified: true, // the link arrived at this address
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
		ProviderID: ProviderMagicLink,
		AccountID:  email,
	}
	if err := s.db.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return user, nil
}
