package store

import (
	"context"
	"time"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

func (s *Store) ProfileByUserID(ctx context.Context, userID uint) (*models.CandidateProfile, error) {
	var profile models.CandidateProfile
	err := s.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, check(err, "unable to look up candidate profile", "Candidate profile not found", "")
	}
	return &profile, nil
}

func (s *Store) ProfileByID(ctx context.Context, id uint) (*models.CandidateProfile, error) {
	var profile models.CandidateProfile
	err := s.db.WithContext(ctx).Preload("User").First(&profile, id).Error
	if err != nil {
		return nil, check(err, "unable to look up candidate profile", "Candidate profile not found", "")
	}
	return &profile, nil
}

// SaveProfile inserts the profile or updates it in place when it has an id.
func (s *Store) SaveProfile(ctx context.Context, profile *models.CandidateProfile) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error
	return check(err, "unable to save candidate profile", "", "Candidate profile already exists")
}

// FindCandidates searches profiles of active candidates.
func (s *Store) FindCandidates(ctx context.Context, spec query.Spec) (query.Page[models.CandidateProfile], error) {
	base := s.db.
		Joins("JOIN users ON users.id = candidate_profiles.user_id").
		Where("users.role = ? AND users.status = ?", types.RoleCandidate, types.UserStatusActive)
	return query.Find[models.CandidateProfile](ctx, base, spec, "User")
}

func (s *Store) SaveJobFor(ctx context.Context, userID, jobID uint) error {
	saved := models.SavedJob{UserID: userID, JobID: jobID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error
	return check(err, "unable to save job", "", "")
}

func (s *Store) UnsaveJob(ctx context.Context, userID, jobID uint) error {
	err := s.db.WithContext(ctx).Where("user_id = ? AND job_id = ?", userID, jobID).Delete(&models.SavedJob{}).Error
	return check(err, "unable to remove saved job", "", "")
}

// SavedJobs lists the user's saved jobs that are still open and not yet applied to.
func (s *Store) SavedJobs(ctx context.Context, userID uint, now time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).
		Preload("Company").
		Joins("JOIN saved_jobs ON saved_jobs.job_id = jobs.id AND saved_jobs.user_id = ?", userID).
		Where("jobs.status = ? AND jobs.application_deadline > ?", types.JobStatusOpen, now).
		Where("NOT EXISTS (SELECT 1 FROM applications a WHERE a.job_id = jobs.id AND a.candidate_id = ?)", userID).
		Order("saved_jobs.created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list saved jobs")
	}
	return jobs, nil
}
