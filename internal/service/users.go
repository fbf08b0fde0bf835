package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/models"
)

type userService struct {
	rows   adapter.RowStore
	logger *logger.Logger
}

// NewUserService administers profile rows in the remote store. There is no
// mirror fallback: errors reach the caller.
func NewUserService(rows adapter.RowStore, logger *logger.Logger) UserService {
	return &userService{rows: rows, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.rows.Select(ctx, usersTable, nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SetApproval approves or deactivates the account with id.
func (s *userService) SetApproval(ctx context.Context, id string, approved bool) (models.User, error) {
	user, err := s.update(ctx, id, models.UserPatch{IsApproved: &approved})
	if err != nil {
		return models.User{}, err
	}

	logger.FromContext(ctx).Info().
		Str("func", "userService.SetApproval").
		Str("user_id", id).
		Bool("approved", approved).
		Msg("user approval changed")
	return user, nil
}

// UpdateProfile applies a self-service patch. Admin and approval fields are
// ignored.
func (s *userService) UpdateProfile(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	patch.IsAdmin = nil
	patch.IsApproved = nil
	patch.Role = nil
	if patch.Empty() {
		return models.User{}, ErrEmptyUserPatch
	}

	return s.update(ctx, id, patch)
}

func (s *userService) update(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	var users []models.User
	if err := s.rows.Update(ctx, usersTable, adapter.Eq{"id": id}, patch, &users); err != nil {
		return models.User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	if len(users) == 0 {
		return models.User{}, fmt.Errorf("update user %s: %w", id, ErrUserNotFound)
	}
	return users[0], nil
}
