package vestibule

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lborres/vestibule/core"
)

// stubStorage satisfies AuthStorage for wiring tests; no behavior needed.
type stubStorage struct{}

func (stubStorage) CreateUser(context.Context, *core.User) error { return nil }
func (stubStorage) GetUserByID(context.Context, string) (*core.User, error) {
	return nil, core.ErrUserNotFound
}
func (stubStorage) GetUserByEmail(context.Context, string) (*core.User, error) {
	return nil, core.ErrUserNotFound
}
func (stubStorage) UpdateUser(context.Context, *core.User) error    { return nil }
func (stubStorage) DeleteUser(context.Context, string) error        { return nil }
func (stubStorage) CreateAccount(context.Context, *core.Account) error { return nil }
func (stubStorage) GetAccountsByUserAndProvider(context.Context, string, string) ([]*core.Account, error) {
	return nil, nil
}
func (stubStorage) UpdateAccount(context.Context, *core.Account) error { return nil }
func (stubStorage) DeleteAccount(context.Context, string) error        { return nil }
func (stubStorage) CreateVerificationToken(context.Context, *core.VerificationToken) error {
	return nil
}
func (stubStorage) GetVerificationToken(context.Context, string) (*core.VerificationToken, error) {
	return nil, core.ErrTokenInvalid
}
func (stubStorage) DeleteVerificationToken(context.Context, string) error { return nil }
func (stubStorage) DeleteVerificationTokens(context.Context, string, string) (int, error) {
	return 0, nil
}

type stubMailer struct{}

func (stubMailer) SendPasswordReset(context.Context, string, string) error { return nil }
func (stubMailer) SendMagicLink(context.Context, string, string) error     { return nil }

// recordingHTTP notes whether RegisterRoutes ran and with which instance.
type recordingHTTP struct {
	registered *Vestibule
}

func (r *recordingHTTP) RegisterRoutes(v *Vestibule) error {
	r.registered = v
	return nil
}

const validSecret = "01234567890123456789012345678901"

func validConfig() Config {
	return Config{
		Secret:   validSecret,
		Database: stubStorage{},
		Mailer:   stubMailer{},
		BaseURL:  "http://localhost:3000",
	}
}

func TestNew_ConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.Secret = "" },
			wantErr: ErrSecretRequired,
		},
		{
			name:    "secret too short",
			mutate:  func(c *Config) { c.Secret = "short-secret" },
			wantErr: ErrSecretTooShort,
		},
		{
			name:    "missing database",
			mutate:  func(c *Config) { c.Database = nil },
			wantErr: ErrDBAdapterRequired,
		},
		{
			name:    "missing mailer",
			mutate:  func(c *Config) { c.Mailer = nil },
			wantErr: ErrMailerRequired,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			cfg := validConfig()
			test.mutate(&cfg)

			// Act
			_, err := New(cfg)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestNew_SecretTooShortMentionsMinimum(t *testing.T) {
	cfg := validConfig()
	cfg.Secret = "short-secret"

	_, err := New(cfg)
	if !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("New() error = %v, want ErrSecretTooShort", err)
	}
	if !strings.Contains(err.Error(), "32") {
		t.Errorf("error message should include the minimum length, got %v", err)
	}
}

func TestNew_WiresServicesAndDefaults(t *testing.T) {
	http := &recordingHTTP{}
	cfg := validConfig()
	cfg.HTTP = http

	v, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if v.Auth == nil || v.Sessions == nil || v.Resets == nil || v.MagicLinks == nil || v.Profiles == nil {
		t.Fatal("New() should wire all core services")
	}
	if v.OAuth != nil {
		t.Error("OAuth should stay nil without provider config")
	}
	if v.BasePath != "/api/auth" {
		t.Errorf("BasePath = %q, want default /api/auth", v.BasePath)
	}
	if http.registered != v {
		t.Error("RegisterRoutes should run with the built instance")
	}
}

func TestNew_OAuthConfigured(t *testing.T) {
	cfg := validConfig()
	cfg.OAuth = &OAuthConfig{
		ProviderID:   "google",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/api/auth/oauth/callback",
		AuthURL:      "https://provider.example.com/authorize",
		TokenURL:     "https://provider.example.com/token",
		UserInfoURL:  "https://provider.example.com/userinfo",
	}

	v, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if v.OAuth == nil {
		t.Fatal("OAuth service should be wired when configured")
	}
}
