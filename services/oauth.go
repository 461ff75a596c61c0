package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/lborres/vestibule/core"
	"github.com/lborres/vestibule/pkg/crypto"
)

// OAuthService wires one delegated OAuth provider. The protocol mechanics
// (authorize URL, code exchange, token refresh) belong to golang.org/x/oauth2;
// this service only binds the resulting identity to local user and account
// rows.
type OAuthService struct {
	db          core.AuthStorage
	sessions    *SessionService
	states      core.StateCache
	oauth       *oauth2.Config
	providerID  string
	userInfoURL string
	ids         *crypto.NanoIDGenerator

	// exchange and fetchUserInfo are swappable in tests to avoid network.
	exchange      func(ctx context.Context, code string) (*oauth2.Token, error)
	fetchUserInfo func(ctx context.Context, token *oauth2.Token) (*userInfo, error)
}

// userInfo is the subset of the provider's userinfo document we consume.
type userInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func NewOAuthService(db core.AuthStorage, sessions *SessionService, states core.StateCache, config core.OAuthConfig) *OAuthService {
	oc := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  config.AuthURL,
			TokenURL: config.TokenURL,
		},
	}

	s := &OAuthService{
		db:          db,
		sessions:    sessions,
		states:      states,
		oauth:       oc,
		providerID:  config.ProviderID,
		userInfoURL: config.UserInfoURL,
	}
	s.ids, _ = crypto.NewNanoID()
	s.exchange = func(ctx context.Context, code string) (*oauth2.Token, error) {
		return oc.Exchange(ctx, code)
	}
	s.fetchUserInfo = s.userInfoFromProvider
	return s
}

// Begin stores a fresh state nonce and returns the provider authorize URL.
func (s *OAuthService) Begin() (string, error) {
	state, err := crypto.GenerateToken(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	if err := s.states.Put(state); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return s.oauth.AuthCodeURL(state), nil
}

// Complete handles the provider callback: verifies the state nonce, swaps
// the code for tokens, fetches the provider identity, and signs the mapped
// local user in.
func (s *OAuthService) Complete(ctx context.Context, state, code string) (*AuthResult, error) {
	if state == "" || !s.states.Take(state) {
		return nil, core.ErrStateInvalid
	}
	if code == "" {
		return nil, core.ErrTokenRequired
	}

	token, err := s.exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	if info.Email == "" || info.Subject == "" {
		return nil, fmt.Errorf("provider returned incomplete user info")
	}

	user, err := s.findOrCreateUser(ctx, info)
	if err != nil {
		return nil, err
	}

	if err := s.upsertAccount(ctx, user.ID, info.Subject, token); err != nil {
		return nil, err
	}

	sessionToken, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResult{User: user, Token: sessionToken, ExpiresAt: expiresAt}, nil
}

func (s *OAuthService) userInfoFromProvider(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	info := &userInfo{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *OAuthService) findOrCreateUser(ctx context.Context, info *userInfo) (*core.User, error) {
	email := NormalizeEmail(info.Email)

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
		EmailVerified: true, // the provider vouches for the address
		Name:          strings.TrimSpace(info.Name),
	}
	if info.Picture != "" {
		picture := info.Picture
		user.Image = &picture
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// upsertAccount stores or refreshes the provider account with the latest
// access/refresh tokens.
func (s *OAuthService) upsertAccount(ctx context.Context, userID, subject string, token *oauth2.Token) error {
	accounts, err := s.db.GetAccountsByUserAndProvider(ctx, userID, s.providerID)
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}

	access := token.AccessToken
	var refresh *string
	if token.RefreshToken != "" {
		r := token.RefreshToken
		refresh = &r
	}

	if len(accounts) == 0 {
		id, err := s.ids.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate ID: %w", err)
		}
		account := &core.Account{
			ID:          id,
			UserID:      userID,
			ProviderID:  s.providerID,
			AccountID:   subject,
			AccessToken: &access,
		}
		account.RefreshToken = refresh
		if !token.Expiry.IsZero() {
			expiry := token.Expiry
			account.ExpiresAt = &expiry
		}
		if err := s.db.CreateAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	}

	account := accounts[0]
	account.AccountID = subject
	account.AccessToken = &access
	if refresh != nil {
		account.RefreshToken = refresh
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		account.ExpiresAt = &expiry
	}
	if err := s.db.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}
