package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/model"
	"github.com/iliyamo/music-manager/internal/queue"
	"github.com/iliyamo/music-manager/internal/repository"
	"github.com/iliyamo/music-manager/internal/utils"
)

// UserService handles registration and profile maintenance.
type UserService struct {
	users      UserStore
	mail       MailPublisher
	bcryptCost int
}

func NewUserService(users UserStore, mail MailPublisher, bcryptCost int) *UserService {
	return &UserService{users: users, mail: mail, bcryptCost: bcryptCost}
}

// Register creates a user with the default USER role and greets them by
// mail.  Duplicate emails are reported whether detected by the pre-check
// or by the unique index.
func (s *UserService) Register(ctx context.Context, email, username, password, confirmPassword string) (Profile, error) {
	if password != confirmPassword {
		return Profile{}, apperr.ErrInvalidRequest
	}
	email = strings.TrimSpace(email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return Profile{}, err
	}
	if exists {
		return Profile{}, apperr.ErrUserExisted
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return Profile{}, err
	}
	u := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        model.NewRoleSet(model.RoleUser),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return Profile{}, apperr.ErrUserExisted
		}
		return Profile{}, err
	}
	if err := s.mail.Publish(ctx, queue.EmailEvent{
		To:      u.Email,
		Subject: "Welcome to Music Manager!",
		Body: fmt.Sprintf("Hello %s,\n\nYour account is ready. Upload your collection and start listening.",
			u.Username),
	}); err != nil {
		log.Printf("user: enqueue welcome mail to %s failed: %v", u.Email, err)
	}
	return profileOf(u), nil
}

// UpdateProfile renames a user.  Only the owner may touch their profile.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, id, username string) (Profile, error) {
	if callerID != id {
		return Profile{}, apperr.ErrAccessDenied
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, apperr.ErrUserNotFound
		}
		return Profile{}, err
	}
	if username != "" && username != u.Username {
		if err := s.users.UpdateUsername(ctx, id, username); err != nil {
			return Profile{}, err
		}
		u.Username = username
	}
	return profileOf(u), nil
}

// GetProfile returns the caller's profile.
func (s *UserService) GetProfile(ctx context.Context, id string) (Profile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, apperr.ErrUserNotFound
		}
		return Profile{}, err
	}
	return profileOf(u), nil
}
