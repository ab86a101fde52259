package store

import (
	"context"
	"time"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/pkg/errors"
)

func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	err := s.db.WithContext(ctx).Create(msg).Error
	return check(err, "unable to save message", "", "")
}

// Messages returns a conversation oldest first.
func (s *Store) Messages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list messages")
	}
	return messages, nil
}

// LastMessages returns the newest message of every conversation userID takes part in.
func (s *Store) LastMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).Raw(`
		SELECT * FROM (
			SELECT DISTINCT ON (conversation_id) *
			FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			ORDER BY conversation_id, created_at DESC
		) last ORDER BY created_at DESC`, userID, userID).
		Scan(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list conversations")
	}
	return messages, nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to look up users")
	}
	return users, nil
}

// MarkConversationRead marks messages sent to receiverID in a conversation as read.
func (s *Store) MarkConversationRead(ctx context.Context, conversationID string, receiverID uint, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND read_at IS NULL", conversationID, receiverID).
		Update("read_at", at).Error
	return errors.Wrap(err, "unable to mark messages as read")
}
