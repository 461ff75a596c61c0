package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lborres/vestibule/core"
	"github.com/lborres/vestibule/pkg/crypto"
)

func newAuthFixture() (*AuthService, *FakeStorage, *SessionService) {
	storage := NewFakeStorage()
	sessions := NewSessionService(storage, testSecret, core.SessionConfig{MaxAge: time.Hour})
	auth := NewAuthService(storage, crypto.NewArgon2(), sessions)
	return auth, storage, sessions
}

// Requirement: sign-up creates the user and a credential account, and the
// returned session resolves to the new user.
func TestAuthService_SignUp(t *testing.T) {
	// Arrange
	auth, storage, sessions := newAuthFixture()

	// Act
	result, err := auth.SignUp(context.Background(), SignUpInput{
		Email:    "New@Example.com",
		Password: "Secret123!",
		Name:     "Ada",
	})

	// Assert
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if result.User.Email != "new@example.com" {
		t.Errorf("user email = %q, want normalized address", result.User.Email)
	}

	accounts, _ := storage.GetAccountsByUserAndProvider(context.Background(), result.User.ID, ProviderCredential)
	if len(accounts) != 1 || accounts[0].Password == nil {
		t.Fatal("sign-up should create a credential account with a password hash")
	}

	session, err := sessions.Resolve(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if session.User.ID != result.User.ID {
		t.Errorf("session user = %q, want %q", session.User.ID, result.User.ID)
	}
}

// Requirement: sign-up input is validated before any state is created.
func TestAuthService_SignUp_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   SignUpInput
		wantErr error
	}{
		{name: "missing email", input: SignUpInput{Password: "Secret123!"}, wantErr: core.ErrEmailRequired},
		{name: "malformed email", input: SignUpInput{Email: "not-an-email", Password: "Secret123!"}, wantErr: core.ErrEmailRequired},
		{name: "missing password", input: SignUpInput{Email: "a@example.com"}, wantErr: core.ErrPasswordRequired},
		{name: "short password", input: SignUpInput{Email: "a@example.com", Password: "five5"}, wantErr: core.ErrPasswordTooShort},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			auth, storage, _ := newAuthFixture()

			_, err := auth.SignUp(context.Background(), test.input)

			if !errors.Is(err, test.wantErr) {
				t.Fatalf("SignUp() error = %v, want %v", err, test.wantErr)
			}
			if len(storage.users) != 0 {
				t.Error("validation failure should not create a user")
			}
		})
	}
}

// Requirement: registering an already-used email is rejected.
func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	auth, _, _ := newAuthFixture()

	if _, err := auth.SignUp(context.Background(), SignUpInput{Email: "a@example.com", Password: "Secret123!"}); err != nil {
		t.Fatalf("first SignUp() error = %v", err)
	}

	_, err := auth.SignUp(context.Background(), SignUpInput{Email: "A@example.com", Password: "Other456!"})
	if !errors.Is(err, core.ErrUserExists) {
		t.Fatalf("second SignUp() error = %v, want ErrUserExists", err)
	}
}

// Requirement: correct credentials yield a resolvable session.
func TestAuthService_SignIn(t *testing.T) {
	auth, _, sessions := newAuthFixture()
	if _, err := auth.SignUp(context.Background(), SignUpInput{Email: "a@example.com", Password: "Secret123!"}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	result, err := auth.SignIn(context.Background(), SignInInput{Email: "a@example.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if _, err := sessions.Resolve(context.Background(), result.Token); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
}

// Requirement: wrong password, unknown email, and a password-less account all
// collapse into the same invalid-credentials error.
func TestAuthService_SignIn_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*AuthService, *FakeStorage)
		input SignInInput
	}{
		{
			name:  "unknown email",
			input: SignInInput{Email: "ghost@example.com", Password: "Secret123!"},
		},
		{
			name: "wrong password",
			setup: func(auth *AuthService, _ *FakeStorage) {
				_, _ = auth.SignUp(context.Background(), SignUpInput{Email: "a@example.com", Password: "Secret123!"})
			},
			input: SignInInput{Email: "a@example.com", Password: "WrongPass!"},
		},
		{
			name: "account without a password",
			setup: func(_ *AuthService, storage *FakeStorage) {
				_ = storage.CreateUser(context.Background(), &core.User{ID: "user-oauth", Email: "oauth@example.com"})
				_ = storage.CreateAccount(context.Background(), &core.Account{
					ID:         "acct-oauth",
					UserID:     "user-oauth",
					ProviderID: "google",
					AccountID:  "sub-123",
				})
			},
			input: SignInInput{Email: "oauth@example.com", Password: "AnyPass123!"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			auth, storage, _ := newAuthFixture()
			if test.setup != nil {
				test.setup(auth, storage)
			}

			_, err := auth.SignIn(context.Background(), test.input)

			if !errors.Is(err, core.ErrInvalidCredentials) {
				t.Fatalf("SignIn() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

// Requirement: sign-out accepts any non-empty token and rejects an empty one.
func TestAuthService_SignOut(t *testing.T) {
	auth, _, _ := newAuthFixture()

	if err := auth.SignOut("some-token"); err != nil {
		t.Errorf("SignOut() error = %v, want nil", err)
	}
	if err := auth.SignOut(""); !errors.Is(err, core.ErrInvalidSession) {
		t.Errorf("SignOut(\"\") error = %v, want ErrInvalidSession", err)
	}
}
