package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lborres/vestibule/core"
)

const maxNameLength = 120

// ProfileService updates the mutable display fields of a user record.
// Email is immutable on this path.
type ProfileService struct {
	db core.UserStorage
}

func NewProfileService(db core.UserStorage) *ProfileService {
	return &ProfileService{db: db}
}

// UpdateName sets only the display name. The caller is expected to resolve
// the session again afterwards; reconciliation picks the new name up without
// re-authentication.
func (s *ProfileService) UpdateName(ctx context.Context, userID, name string) (*core.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.ErrNameRequired
	}
	if len(name) > maxNameLength {
		return nil, core.ErrNameTooLong
	}

	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		if err == core.ErrUserNotFound {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Name = name
	if err := s.db.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
