package store

import (
	"context"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

func (s *Store) Contents(ctx context.Context) ([]models.Content, error) {
	var contents []models.Content
	if err := s.db.WithContext(ctx).Order("key").Find(&contents).Error; err != nil {
		return nil, errors.Wrap(err, "unable to list content")
	}
	return contents, nil
}

func (s *Store) ContentByKey(ctx context.Context, key string) (*models.Content, error) {
	var content models.Content
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&content).Error
	if err != nil {
		return nil, check(err, "unable to look up content", "Content not found", "")
	}
	return &content, nil
}

func (s *Store) UpsertContent(ctx context.Context, content *models.Content) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "last_updated_by", "updated_at"}),
	}).Create(content).Error
	return check(err, "unable to save content", "", "")
}
