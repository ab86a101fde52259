package store

import (
	"context"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/query"
)

func (s *Store) CreateApplication(ctx context.Context, app *models.Application) error {
	err := s.db.WithContext(ctx).Create(app).Error
	return check(err, "unable to create application", "", "You have already applied for this job")
}

func (s *Store) ApplicationByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).Preload("Job").First(&app, id).Error
	if err != nil {
		return nil, check(err, "unable to look up application", "Application not found", "")
	}
	return &app, nil
}

// ApplicationFor returns the candidate's application to a job, or NotFound.
func (s *Store) ApplicationFor(ctx context.Context, jobID, candidateID uint) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).
		Where("job_id = ? AND candidate_id = ?", jobID, candidateID).
		First(&app).Error
	if err != nil {
		return nil, check(err, "unable to look up application", "Application not found", "")
	}
	return &app, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id uint, status string) error {
	res := s.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	return notFoundIfNone(res, "unable to update application", "Application not found")
}

func (s *Store) FindApplications(ctx context.Context, spec query.Spec) (query.Page[models.Application], error) {
	return query.Find[models.Application](ctx, s.db, spec, "Job", "Job.Company", "Candidate")
}
