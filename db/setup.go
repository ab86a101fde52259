package db

import (
	"github.com/kriti-labs/jobportal/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres pool. Driver errors are translated so that
// unique-index violations surface as gorm.ErrDuplicatedKey.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Company{},
		&models.Job{},
		&models.Application{},
		&models.CandidateProfile{},
		&models.SavedJob{},
		&models.Notification{},
		&models.DeviceToken{},
		&models.Message{},
		&models.Content{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return err
		}
	}

	return nil
}
