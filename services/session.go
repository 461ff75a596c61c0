package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lborres/vestibule/core"
)

// sessionClaims is the signed, client-held claim. Only the subject (user id)
// is trusted after verification; email is carried for convenience but always
// superseded by the store during Resolve.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionService issues and resolves signed session claims.
//
// Resolve re-fetches the user on every call, so profile edits are reflected
// on the very next session read without re-authentication. The cost is one
// store lookup per session-bearing request.
type SessionService struct {
	db     core.UserStorage
	secret []byte
	maxAge time.Duration

	now func() time.Time // overridable in tests
}

func NewSessionService(db core.UserStorage, secret string, config core.SessionConfig) *SessionService {
	maxAge := config.MaxAge
	if maxAge <= 0 {
		maxAge = core.DefaultSessionConfig().MaxAge
	}

	return &SessionService{
		db:     db,
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Issue signs a claim embedding the stable user id and email.
func (s *SessionService) Issue(user *core.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.maxAge)

	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}

	return token, expiresAt, nil
}

// Resolve verifies the claim and reconciles it against current stored data.
// The returned fields come from the user row, not the claim; a vanished user
// invalidates the session.
func (s *SessionService) Resolve(ctx context.Context, token string) (*core.SessionData, error) {
	if token == "" {
		return nil, core.ErrInvalidSession
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrSessionExpired
		}
		return nil, core.ErrInvalidSession
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, core.ErrInvalidSession
	}

	user, err := s.db.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if err == core.ErrUserNotFound {
			return nil, core.ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &core.SessionData{
		User:      user,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
