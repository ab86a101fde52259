package store

import (
	"context"
	"time"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/pkg/errors"
)

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	err := s.db.WithContext(ctx).Create(job).Error
	return check(err, "unable to create job", "", "")
}

func (s *Store) JobByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).Preload("Company").First(&job, id).Error
	if err != nil {
		return nil, check(err, "unable to look up job", "Job not found", "")
	}
	return &job, nil
}

func (s *Store) UpdateJob(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Updates(updates)
	return notFoundIfNone(res, "unable to update job", "Job not found")
}

func (s *Store) DeleteJob(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Job{}, id)
	return notFoundIfNone(res, "unable to delete job", "Job not found")
}

func (s *Store) FindJobs(ctx context.Context, spec query.Spec) (query.Page[models.Job], error) {
	return query.Find[models.Job](ctx, s.db, spec, "Company")
}

func (s *Store) CountApplications(ctx context.Context, jobID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Application{}).Where("job_id = ?", jobID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "unable to count applications")
	}
	return count, nil
}

// CloseExpiredJobs moves every open job whose deadline has passed to Closed.
func (s *Store) CloseExpiredJobs(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Job{}).
		Where("status = ? AND application_deadline <= ?", types.JobStatusOpen, now).
		Update("status", types.JobStatusClosed)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "unable to close expired jobs")
	}
	return res.RowsAffected, nil
}
