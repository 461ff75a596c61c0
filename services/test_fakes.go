package services

import (
	"context"
	"sync"

	"github.com/lborres/vestibule/core"
)

// FakeStorage is a test-only in-memory implementation of core.AuthStorage.
// It stores rows in maps and exposes error fields for behavior injection.
type FakeStorage struct {
	mu       sync.RWMutex
	users    map[string]*core.User    // keyed by ID
	accounts map[string]*core.Account // keyed by ID
	tokens   map[string]*core.VerificationToken // keyed by token value

	createUserErr error
	getUserErr    error
	updateUserErr error

	createAccountErr error
	getAccountErr    error
	updateAccountErr error

	createTokenErr error
	getTokenErr    error
	deleteTokenErr error
}

var _ core.AuthStorage = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		users:    make(map[string]*core.User),
		accounts: make(map[string]*core.Account),
		tokens:   make(map[string]*core.VerificationToken),
	}
}

// UserStorage

func (f *FakeStorage) CreateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	f.users[u.ID] = u
	return nil
}

func (f *FakeStorage) GetUserByID(_ context.Context, id string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *FakeStorage) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) UpdateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateUserErr != nil {
		return f.updateUserErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return core.ErrUserNotFound
	}
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *FakeStorage) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

// AccountStorage

func (f *FakeStorage) CreateAccount(_ context.Context, a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAccountErr != nil {
		return f.createAccountErr
	}
	copied := *a
	f.accounts[a.ID] = &copied
	return nil
}

func (f *FakeStorage) GetAccountsByUserAndProvider(_ context.Context, userID, providerID string) ([]*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getAccountErr != nil {
		return nil, f.getAccountErr
	}
	var out []*core.Account
	for _, a := range f.accounts {
		if a.UserID == userID && a.ProviderID == providerID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *FakeStorage) UpdateAccount(_ context.Context, a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateAccountErr != nil {
		return f.updateAccountErr
	}
	if _, ok := f.accounts[a.ID]; !ok {
		return core.ErrUserNotFound
	}
	copied := *a
	f.accounts[a.ID] = &copied
	return nil
}

func (f *FakeStorage) DeleteAccount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, id)
	return nil
}

// TokenStorage

func (f *FakeStorage) CreateVerificationToken(_ context.Context, t *core.VerificationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createTokenErr != nil {
		return f.createTokenErr
	}
	copied := *t
	f.tokens[t.Token] = &copied
	return nil
}

func (f *FakeStorage) GetVerificationToken(_ context.Context, token string) (*core.VerificationToken, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getTokenErr != nil {
		return nil, f.getTokenErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	copied := *t
	return &copied, nil
}

func (f *FakeStorage) DeleteVerificationToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteTokenErr != nil {
		return f.deleteTokenErr
	}
	delete(f.tokens, token)
	return nil
}

func (f *FakeStorage) DeleteVerificationTokens(_ context.Context, identifier, purpose string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteTokenErr != nil {
		return 0, f.deleteTokenErr
	}
	count := 0
	for key, t := range f.tokens {
		if t.Identifier == identifier && t.Purpose == purpose {
			delete(f.tokens, key)
			count++
		}
	}
	return count, nil
}

// helpers for assertions

func (f *FakeStorage) tokenCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tokens)
}

func (f *FakeStorage) tokensFor(identifier, purpose string) []*core.VerificationToken {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*core.VerificationToken
	for _, t := range f.tokens {
		if t.Identifier == identifier && t.Purpose == purpose {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out
}

// FakeMailer records outbound sends and can fail on demand.
type FakeMailer struct {
	mu         sync.Mutex
	resets     []string // recipient emails
	resetURLs  []string
	magicLinks []string
	linkURLs   []string
	sendErr    error
}

var _ core.Mailer = (*FakeMailer)(nil)

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{}
}

func (m *FakeMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.resets = append(m.resets, to)
	m.resetURLs = append(m.resetURLs, resetURL)
	return nil
}

func (m *FakeMailer) SendMagicLink(_ context.Context, to, linkURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.magicLinks = append(m.magicLinks, to)
	m.linkURLs = append(m.linkURLs, linkURL)
	return nil
}

func (m *FakeMailer) resetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resets)
}

func (m *FakeMailer) magicLinkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.magicLinks)
}

// FakeStateCache is a trivially permissive or strict state store for OAuth
// tests.
type FakeStateCache struct {
	mu     sync.Mutex
	states map[string]bool
}

var _ core.StateCache = (*FakeStateCache)(nil)

func NewFakeStateCache() *FakeStateCache {
	return &FakeStateCache{states: make(map[string]bool)}
}

func (c *FakeStateCache) Put(state string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[state] = true
	return nil
}

func (c *FakeStateCache) Take(state string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ok := c.states[state]
	delete(c.states, state)
	return ok
}
