package store

import (
	"context"
	"time"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// UpsertDeviceToken registers a push token. A token already known for another
// user is moved to this user and re-enabled.
func (s *Store) UpsertDeviceToken(ctx context.Context, token *models.DeviceToken) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fcm_token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "role", "platform", "device_id", "enabled", "last_used", "updated_at"}),
	}).Create(token).Error
	return check(err, "unable to register device token", "", "")
}

func (s *Store) DisableDeviceToken(ctx context.Context, userID uint, token string) error {
	res := s.db.WithContext(ctx).Model(&models.DeviceToken{}).
		Where("user_id = ? AND fcm_token = ?", userID, token).
		Update("enabled", false)
	return notFoundIfNone(res, "unable to disable device token", "Device token not found")
}

func (s *Store) EnabledDeviceTokens(ctx context.Context, userID uint) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := s.db.WithContext(ctx).Where("user_id = ? AND enabled = ?", userID, true).Find(&tokens).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list device tokens")
	}
	return tokens, nil
}

// DisableDeviceTokens disables every listed token in one statement.
func (s *Store) DisableDeviceTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&models.DeviceToken{}).
		Where("fcm_token IN ?", tokens).
		Update("enabled", false).Error
	return errors.Wrap(err, "unable to disable device tokens")
}

// PurgeDisabledTokens deletes tokens that have been disabled since before cutoff.
func (s *Store) PurgeDisabledTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("enabled = ? AND updated_at < ?", false, cutoff).Delete(&models.DeviceToken{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "unable to purge disabled device tokens")
	}
	return res.RowsAffected, nil
}
