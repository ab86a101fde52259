package store

import (
	"context"
	"time"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/pkg/errors"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	return check(err, "unable to create user", "", "User with this email already exists")
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, check(err, "unable to look up user", "User not found", "")
	}
	return &user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, check(err, "unable to look up user by email", "User not found", "")
	}
	return &user, nil
}

// UserByResetToken finds the user holding an unexpired reset token hash.
func (s *Store) UserByResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("password_reset_token = ? AND password_reset_expires > ?", hash, now).
		First(&user).Error
	if err != nil {
		return nil, check(err, "unable to look up reset token", "Token is invalid or has expired", "")
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if err := check(res.Error, "unable to update user", "", "User with this email already exists"); err != nil {
		return err
	}
	return notFoundIfNone(res, "unable to update user", "User not found")
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	return notFoundIfNone(res, "unable to delete user", "User not found")
}

func (s *Store) FindUsers(ctx context.Context, spec query.Spec) (query.Page[models.User], error) {
	return query.Find[models.User](ctx, s.db, spec)
}

// ActiveUserIDsByRole returns the ids of every active user holding role.
func (s *Store) ActiveUserIDsByRole(ctx context.Context, role string) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND status = ?", role, types.UserStatusActive).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list users by role")
	}
	return ids, nil
}
