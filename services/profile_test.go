package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lborres/vestibule/core"
)

// Requirement: the name is trimmed and persisted; email stays untouched.
func TestProfileService_UpdateName(t *testing.T) {
	// Arrange
	storage := NewFakeStorage()
	service := NewProfileService(storage)
	_ = storage.CreateUser(context.Background(), &core.User{
		ID:    "user-1",
		Email: "user@example.com",
		Name:  "Ada",
	})

	// Act
	user, err := service.UpdateName(context.Background(), "user-1", "  Ada Lovelace  ")

	// Assert
	if err != nil {
		t.Fatalf("UpdateName() error = %v", err)
	}
	if user.Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want trimmed name", user.Name)
	}
	if user.Email != "user@example.com" {
		t.Errorf("Email = %q, must not change on this path", user.Email)
	}

	stored, _ := storage.GetUserByID(context.Background(), "user-1")
	if stored.Name != "Ada Lovelace" {
		t.Errorf("stored Name = %q, want persisted update", stored.Name)
	}
}

// Requirement: name input is validated and unknown users are reported.
func TestProfileService_UpdateName_Errors(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		newName string
		wantErr error
	}{
		{name: "blank name", userID: "user-1", newName: "   ", wantErr: core.ErrNameRequired},
		{name: "name too long", userID: "user-1", newName: strings.Repeat("a", 121), wantErr: core.ErrNameTooLong},
		{name: "unknown user", userID: "ghost", newName: "Ada", wantErr: core.ErrUserNotFound},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			storage := NewFakeStorage()
			service := NewProfileService(storage)
			_ = storage.CreateUser(context.Background(), &core.User{ID: "user-1", Email: "user@example.com"})

			_, err := service.UpdateName(context.Background(), test.userID, test.newName)

			if !errors.Is(err, test.wantErr) {
				t.Fatalf("UpdateName() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

// Requirement: a profile edit is visible on the very next session resolve
// without issuing a new token.
func TestProfileService_UpdateName_VisibleOnNextResolve(t *testing.T) {
	storage := NewFakeStorage()
	profiles := NewProfileService(storage)
	sessions := NewSessionService(storage, testSecret, core.SessionConfig{MaxAge: time.Hour})

	user := &core.User{ID: "user-1", Email: "user@example.com", Name: "Ada"}
	_ = storage.CreateUser(context.Background(), user)
	token, _, err := sessions.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := profiles.UpdateName(context.Background(), "user-1", "Ada Lovelace"); err != nil {
		t.Fatalf("UpdateName() error = %v", err)
	}

	session, err := sessions.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if session.User.Name != "Ada Lovelace" {
		t.Errorf("resolved Name = %q, want the edited name on the original token", session.User.Name)
	}
}
