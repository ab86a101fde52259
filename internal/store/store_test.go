package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "unable to open the mock database connection")
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return New(db), mock
}

func TestUserByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.UserByID(context.Background(), 9)

	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestCreateApplicationDuplicateIsConflict(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "applications"`).WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := s.CreateApplication(context.Background(), &models.Application{JobID: 1, CandidateID: 2, EmployerID: 3, ResumeURL: "r"})

	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestCreateApplication(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	app := &models.Application{JobID: 1, CandidateID: 2, EmployerID: 3, ResumeURL: "r", Status: "Applied"}
	require.NoError(t, s.CreateApplication(context.Background(), app))

	assert.Equal(t, uint(11), app.ID)
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestUnexpectedErrorIsWrapped(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "jobs"`).WillReturnError(assert.AnError)

	_, err := s.JobByID(context.Background(), 1)

	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "unable to look up job")
}

func TestCloseExpiredJobs(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "jobs" SET "status"=\$1,"updated_at"=\$2 WHERE status = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := s.CloseExpiredJobs(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestDeleteJobMissingIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "jobs" WHERE "jobs"."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteJob(context.Background(), 4)

	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestMarkReadAll(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET .* WHERE recipient_id = \$\d+ AND is_read = \$\d+$`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	n, err := s.MarkRead(context.Background(), 5, nil, time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestMarkReadSelected(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET .* WHERE \(recipient_id = \$\d+ AND is_read = \$\d+\) AND id IN \(\$\d+,\$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := s.MarkRead(context.Background(), 5, []uint{1, 2}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestDisableDeviceTokensEmptyIsNoop(t *testing.T) {
	s, mock := newMockStore(t)

	require.NoError(t, s.DisableDeviceTokens(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestUpsertDeviceTokenTransfersOwnership(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "device_tokens" .* ON CONFLICT \("fcm_token"\) DO UPDATE SET "user_id"="excluded"."user_id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := s.UpsertDeviceToken(context.Background(), &models.DeviceToken{
		UserID: 2, Role: "candidate", FCMToken: "tok", Platform: "android", Enabled: true, LastUsed: time.Now(),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestActiveUserIDsByRole(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT "id" FROM "users" WHERE role = \$1 AND status = \$2`).
		WithArgs("admin", "active").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(4))

	ids, err := s.ActiveUserIDsByRole(context.Background(), "admin")

	require.NoError(t, err)
	assert.Equal(t, []uint{1, 4}, ids)
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}
