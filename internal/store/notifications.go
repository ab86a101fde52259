package store

import (
	"context"
	"time"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	err := s.db.WithContext(ctx).Create(n).Error
	return check(err, "unable to save notification", "", "")
}

// MarkNotificationSent records the channels that were attempted for a notification.
func (s *Store) MarkNotificationSent(ctx context.Context, id uint, channels []string, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"delivery_channels": pq.StringArray(channels),
			"sent":              true,
			"sent_at":           at,
		}).Error
	return check(err, "unable to mark notification as sent", "", "")
}

// FindNotifications lists a recipient's notifications created after since.
func (s *Store) FindNotifications(ctx context.Context, recipientID uint, since time.Time, spec query.Spec) (query.Page[models.Notification], error) {
	base := s.db.Where("recipient_id = ? AND created_at > ?", recipientID, since)
	return query.Find[models.Notification](ctx, base, spec)
}

func (s *Store) CountUnread(ctx context.Context, recipientID uint, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND created_at > ?", recipientID, false, since).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "unable to count unread notifications")
	}
	return count, nil
}

// MarkRead marks the recipient's unread notifications as read. Empty ids marks all of them.
func (s *Store) MarkRead(ctx context.Context, recipientID uint, ids []uint, at time.Time) (int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false)
	if len(ids) > 0 {
		tx = tx.Where("id IN ?", ids)
	}

	res := tx.Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "unable to mark notifications as read")
	}
	return res.RowsAffected, nil
}

func (s *Store) NotificationByID(ctx context.Context, recipientID, id uint) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).First(&n).Error
	if err != nil {
		return nil, check(err, "unable to look up notification", "Notification not found", "")
	}
	return &n, nil
}

func (s *Store) DeleteNotification(ctx context.Context, recipientID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).Delete(&models.Notification{})
	return notFoundIfNone(res, "unable to delete notification", "Notification not found")
}

func (s *Store) ClearNotifications(ctx context.Context, recipientID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("recipient_id = ?", recipientID).Delete(&models.Notification{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "unable to clear notifications")
	}
	return res.RowsAffected, nil
}

// PurgeNotifications deletes notifications created before cutoff.
func (s *Store) PurgeNotifications(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.Notification{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "unable to purge notifications")
	}
	return res.RowsAffected, nil
}
