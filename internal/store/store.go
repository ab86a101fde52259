package store

import (
	"context"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store implements persistence for every service on top of gorm.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "unable to get the database handle")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "database ping failed")
}

// check classifies gorm errors. Missing rows become NotFound with notFound as
// the message, duplicate keys become Conflict with conflict as the message,
// and anything else is wrapped with wrapMsg.
func check(err error, wrapMsg, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case notFound != "" && errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NewNotFound("%s", notFound)
	case conflict != "" && errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.NewConflict("%s", conflict)
	}
	return errors.Wrap(err, wrapMsg)
}

func notFoundIfNone(res *gorm.DB, wrapMsg, notFound string) error {
	if res.Error != nil {
		return errors.Wrap(res.Error, wrapMsg)
	}
	if res.RowsAffected == 0 {
		return apperr.NewNotFound("%s", notFound)
	}
	return nil
}
