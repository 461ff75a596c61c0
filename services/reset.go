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
	// GenericResetMessage is returned for every accepted reset request,
	// whether or not the email maps to an account. Anti-enumeration: the
	// response must never reveal account existence.
	GenericResetMessage = "If an account exists with that email, a password reset link has been sent."

	resetTokenTTL     = 15 * time.Minute
	minPasswordLength = 6
)

// resetEligibility classifies a reset request before the anti-enumeration
// collapse. Only translateEligibility may turn this into an external
// response.
type resetEligibility int

const (
	eligibilityNotFound resetEligibility = iota
	eligibilityNoPassword
	eligibilityEligible
)

// PasswordResetService owns the reset-token lifecycle: issuance on request,
// single-use redemption, cleanup on expiry.
type PasswordResetService struct {
	db        core.AuthStorage
	mailer    core.Mailer
	passwords crypto.PasswordHandler
	limiter   *ResetLimiter
	baseURL   string
	ids       *crypto.NanoIDGenerator

	now func() time.Time // overridable in tests
}

func NewPasswordResetService(db core.AuthStorage, mailer core.Mailer, passwords crypto.PasswordHandler, limiter *ResetLimiter, baseURL string) *PasswordResetService {
	ids, _ := crypto.NewNanoID()
	return &PasswordResetService{
		db:        db,
		mailer:    mailer,
		passwords: passwords,
		limiter:   limiter,
		baseURL:   strings.TrimRight(baseURL, "/"),
		ids:       ids,
		now:       time.Now,
	}
}

// NormalizeEmail lowercases and trims an email for use as a lookup and
// rate-limit key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Request handles a forgot-password submission.
//
// Whether the email maps to a user with a password, a user without one, or
// no user at all, the caller gets the same generic message; ineligible
// requests still consume the rate-limit slot and send nothing. The one
// visible failure is a mail send error, which occurs only after eligibility
// has passed.
func (s *PasswordResetService) Request(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", core.ErrEmailRequired
	}

	identifier := NormalizeEmail(email)

	if cooldown := s.limiter.Reserve(identifier); cooldown != nil {
		return "", cooldown
	}

	// The stamp survives only a completed request; any failure past this
	// point releases the slot so the caller may retry immediately.
	eligibility, err := s.classify(ctx, identifier)
	if err != nil {
		s.limiter.Forget(identifier)
		return "", err
	}

	if eligibility == eligibilityEligible {
		token, err := s.issueToken(ctx, identifier)
		if err != nil {
			s.limiter.Forget(identifier)
			return "", err
		}

		resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
		if err := s.mailer.SendPasswordReset(ctx, identifier, resetURL); err != nil {
			s.limiter.Forget(identifier)
			return "", fmt.Errorf("%w: %w", core.ErrMailSendFailed, err)
		}
	}

	return translateEligibility(eligibility), nil
}

// classify resolves the internal outcome for an identifier without leaking
// it externally.
func (s *PasswordResetService) classify(ctx context.Context, identifier string) (resetEligibility, error) {
	user, err := s.db.GetUserByEmail(ctx, identifier)
	if err != nil {
		if err == core.ErrUserNotFound {
			return eligibilityNotFound, nil
		}
		return 0, fmt.Errorf("failed to find user: %w", err)
	}

	accounts, err := s.db.GetAccountsByUserAndProvider(ctx, user.ID, ProviderCredential)
	if err != nil {
		return 0, fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accounts) == 0 || accounts[0].Password == nil {
		// OAuth/magic-link only account: a reset would set a password the
		// user never had, so it is treated the same as no account.
		return eligibilityNoPassword, nil
	}

	return eligibilityEligible, nil
}

// translateEligibility is the single point where internal outcomes become
// external responses. Every non-rate-limited outcome maps to the same
// message.
func translateEligibility(resetEligibility) string {
	return GenericResetMessage
}

// issueToken invalidates any prior reset token for the identifier and
// persists a fresh one.
func (s *PasswordResetService) issueToken(ctx context.Context, identifier string) (string, error) {
	if _, err := s.db.DeleteVerificationTokens(ctx, identifier, core.TokenPurposeReset); err != nil {
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
		Purpose:    core.TokenPurposeReset,
		ExpiresAt:  now.Add(resetTokenTTL),
		CreatedAt:  now,
	}

	if err := s.db.CreateVerificationToken(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}

// Redeem consumes a reset token and replaces the user's password.
//
// A token is redeemable at most once. It is deleted on success, on expiry
// detection, and when the owning user has vanished mid-flow - a dangling
// valid token must never survive redemption.
func (s *PasswordResetService) Redeem(ctx context.Context, token, password string) error {
	if token == "" {
		return core.ErrTokenRequired
	}
	if password == "" {
		return core.ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return core.ErrPasswordTooShort
	}

	// Single indexed lookup by token value; the identifier comes from the
	// found row, never from the caller.
	record, err := s.db.GetVerificationToken(ctx, token)
	if err != nil {
		if err == core.ErrTokenInvalid {
			return core.ErrTokenInvalid
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	if record.Purpose != core.TokenPurposeReset {
		return core.ErrTokenInvalid
	}

	if record.Expired(s.now()) {
		if err := s.db.DeleteVerificationToken(ctx, token); err != nil {
			return fmt.Errorf("failed to delete expired token: %w", err)
		}
		return core.ErrTokenExpired
	}

	user, err := s.db.GetUserByEmail(ctx, record.Identifier)
	if err != nil {
		if err == core.ErrUserNotFound {
			// Single-use holds even on the failure path.
			_ = s.db.DeleteVerificationToken(ctx, token)
			return core.ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.setPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	if err := s.db.DeleteVerificationToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete consumed token: %w", err)
	}

	return nil
}

// setPassword replaces the credential-account hash, creating the account if
// the user reached redemption without one.
func (s *PasswordResetService) setPassword(ctx context.Context, userID, hash string) error {
	accounts, err := s.db.GetAccountsByUserAndProvider(ctx, userID, ProviderCredential)
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}

	if len(accounts) == 0 {
		id, err := s.ids.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate ID: %w", err)
		}
		account := &core.Account{
			ID:         id,
			UserID:     userID,
			ProviderID: ProviderCredential,
			AccountID:  userID,
			Password:   &hash,
		}
		if err := s.db.CreateAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	}

	account := accounts[0]
	account.Password = &hash
	if err := s.db.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}
