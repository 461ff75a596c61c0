package vestibule

import (
	"fmt"
	"time"

	"github.com/lborres/vestibule/core"
	"github.com/lborres/vestibule/pkg/cache"
	"github.com/lborres/vestibule/pkg/crypto"
	"github.com/lborres/vestibule/services"
)

// interfaces
type (
	AuthStorage = core.AuthStorage
	Mailer      = core.Mailer
	StateCache  = core.StateCache

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	SessionConfig = core.SessionConfig
	OAuthConfig   = core.OAuthConfig
)

type (
	User              = core.User
	Account           = core.Account
	VerificationToken = core.VerificationToken
	SessionData       = core.SessionData
	AuthResult        = services.AuthResult
	SignUpInput       = services.SignUpInput
	SignInInput       = services.SignInInput
)

const (
	defaultBasePath  = "/api/auth"
	defaultSecretLen = 32

	// GenericResetMessage is the anti-enumeration forgot-password response.
	GenericResetMessage = services.GenericResetMessage
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2            = crypto.NewArgon2
	DefaultSessionConfig = core.DefaultSessionConfig
	NormalizeEmail       = services.NormalizeEmail
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrInvalidSession    = core.ErrInvalidSession
	ErrSessionExpired    = core.ErrSessionExpired
)

var (
	ErrTokenInvalid = core.ErrTokenInvalid
	ErrTokenExpired = core.ErrTokenExpired
	ErrStateInvalid = core.ErrStateInvalid
)

var (
	ErrEmailRequired    = core.ErrEmailRequired
	ErrTokenRequired    = core.ErrTokenRequired
	ErrPasswordRequired = core.ErrPasswordRequired
	ErrPasswordTooShort = core.ErrPasswordTooShort
	ErrNameRequired     = core.ErrNameRequired
	ErrNameTooLong      = core.ErrNameTooLong
)

var (
	ErrDBAdapterRequired = core.ErrDBAdapterRequired
	ErrMailerRequired    = core.ErrMailerRequired
	ErrSecretRequired    = core.ErrSecretRequired
	ErrSecretTooShort    = core.ErrSecretTooShort
)

var (
	ErrMailSendFailed = core.ErrMailSendFailed
	ErrOAuthDisabled  = core.ErrOAuthDisabled
)

// HTTPAdapter mounts the auth routes onto a host framework.
type HTTPAdapter interface {
	RegisterRoutes(v *Vestibule) error
}

type Config struct {
	// Secret signs session claims. Minimum 32 characters.
	Secret string

	Database core.AuthStorage
	Mailer   core.Mailer
	HTTP     HTTPAdapter

	// BaseURL prefixes links embedded in outbound email,
	// e.g. <BaseURL>/reset-password?token=<token>.
	BaseURL string

	// Optional config
	SessionConfig  *core.SessionConfig
	PasswordHasher crypto.PasswordHandler
	BasePath       string
	ResetCooldown  time.Duration
	OAuth          *core.OAuthConfig
	States         core.StateCache
}

// Vestibule bundles the wired services. Fields are nil only where the
// corresponding feature is unconfigured (OAuth).
type Vestibule struct {
	Auth       *services.AuthService
	Sessions   *services.SessionService
	Resets     *services.PasswordResetService
	MagicLinks *services.MagicLinkService
	Profiles   *services.ProfileService
	OAuth      *services.OAuthService

	BasePath string
}

func New(config Config) (*Vestibule, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.Mailer == nil {
		return nil, ErrMailerRequired
	}

	// Set Defaults

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		defaults := core.DefaultSessionConfig()
		sessionConfig = &defaults
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	sessions := services.NewSessionService(config.Database, config.Secret, *sessionConfig)
	limiter := services.NewResetLimiter(config.ResetCooldown)

	v := &Vestibule{
		Auth:       services.NewAuthService(config.Database, passwordHasher, sessions),
		Sessions:   sessions,
		Resets:     services.NewPasswordResetService(config.Database, config.Mailer, passwordHasher, limiter, config.BaseURL),
		MagicLinks: services.NewMagicLinkService(config.Database, config.Mailer, sessions, config.BaseURL),
		Profiles:   services.NewProfileService(config.Database),
		BasePath:   basePath,
	}

	if config.OAuth != nil {
		states := config.States
		if states == nil {
			states = cache.NewStateStore(10*time.Minute, 500)
		}
		v.OAuth = services.NewOAuthService(config.Database, sessions, states, *config.OAuth)
	}

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}
