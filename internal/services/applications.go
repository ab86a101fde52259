package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
	log "github.com/sirupsen/logrus"
)

type ApplicationStore interface {
	JobByID(ctx context.Context, id uint) (*models.Job, error)
	CreateApplication(ctx context.Context, app *models.Application) error
	ApplicationByID(ctx context.Context, id uint) (*models.Application, error)
	ApplicationFor(ctx context.Context, jobID, candidateID uint) (*models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uint, status string) error
	FindApplications(ctx context.Context, spec query.Spec) (query.Page[models.Application], error)
	UnsaveJob(ctx context.Context, userID, jobID uint) error
}

type ApplyInput struct {
	JobID       uint   `json:"jobId" binding:"required"`
	ResumeURL   string `json:"resumeUrl" binding:"required"`
	CoverLetter string `json:"coverLetter" binding:"max=5000"`
}

type ApplicationService struct {
	store    ApplicationStore
	notifier Notifier
	now      func() time.Time
}

func NewApplicationService(store ApplicationStore, notifier Notifier) *ApplicationService {
	return &ApplicationService{store: store, notifier: notifier, now: time.Now}
}

// Apply creates an application when the job is open, its deadline has not
// passed and the candidate has not applied before.
func (s *ApplicationService) Apply(ctx context.Context, actor types.AuthenticatedUser, in ApplyInput) (*models.Application, error) {
	job, err := s.store.JobByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}

	if job.Status != types.JobStatusOpen {
		return nil, apperr.NewValidation("Job is not open for applications")
	}
	if job.Expired(s.now()) {
		return nil, apperr.NewValidation("The application deadline for this job has passed")
	}

	_, err = s.store.ApplicationFor(ctx, job.ID, actor.ID)
	switch {
	case err == nil:
		return nil, apperr.NewConflict("You have already applied for this job")
	case !apperr.Is(err, apperr.NotFound):
		return nil, err
	}

	app := &models.Application{
		JobID:       job.ID,
		CandidateID: actor.ID,
		EmployerID:  job.EmployerID,
		ResumeURL:   in.ResumeURL,
		CoverLetter: in.CoverLetter,
		Status:      types.ApplicationStatusApplied,
	}

	// A concurrent apply loses on the unique index and surfaces as a conflict.
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	// The application is committed; a stale saved-job entry must not hide it.
	if err := s.store.UnsaveJob(ctx, actor.ID, job.ID); err != nil {
		log.WithField("user_id", actor.ID).Printf("Failed to remove job %d from saved jobs: %v", job.ID, err)
	}

	data := map[string]interface{}{
		"jobId":         job.ID,
		"applicationId": app.ID,
		"jobTitle":      job.Title,
	}

	s.notifier.NotifyUser(job.EmployerID, notify.Payload{
		Type:       types.NotificationApplicationReceived,
		Title:      "New Application Received",
		Message:    fmt.Sprintf("%s applied for %s", actor.Name, job.Title),
		EntityType: types.EntityApplication,
		EntityID:   uintPtr(app.ID),
		Data:       data,
	})

	s.notifier.NotifyUser(actor.ID, notify.Payload{
		Type:       types.NotificationJobApplied,
		Title:      "Application Submitted",
		Message:    fmt.Sprintf("Your application for %s has been submitted", job.Title),
		EntityType: types.EntityApplication,
		EntityID:   uintPtr(app.ID),
		Data:       data,
		Channels:   []notify.Channel{notify.InApp},
	})

	app.Job = job
	return app, nil
}

// Check returns the candidate's application to the job, or nil when there is none.
func (s *ApplicationService) Check(ctx context.Context, actor types.AuthenticatedUser, jobID uint) (*models.Application, error) {
	app, err := s.store.ApplicationFor(ctx, jobID, actor.ID)
	if apperr.Is(err, apperr.NotFound) {
		return nil, nil
	}
	return app, err
}

func (s *ApplicationService) Mine(ctx context.Context, actor types.AuthenticatedUser, params url.Values) (query.Page[models.Application], error) {
	spec := query.Build(params, query.ApplicationSchema).And(sq.Eq{"candidate_id": actor.ID})
	return s.store.FindApplications(ctx, spec)
}

func (s *ApplicationService) ForJob(ctx context.Context, actor types.AuthenticatedUser, jobID uint, params url.Values) (query.Page[models.Application], error) {
	job, err := s.store.JobByID(ctx, jobID)
	if err != nil {
		return query.Page[models.Application]{}, err
	}

	if err := requireManage(actor, job.EmployerID, "view applications for this job"); err != nil {
		return query.Page[models.Application]{}, err
	}

	spec := query.Build(params, query.ApplicationSchema).And(sq.Eq{"job_id": job.ID})
	return s.store.FindApplications(ctx, spec)
}

// ForEmployer lists applications across every job the employer posted.
func (s *ApplicationService) ForEmployer(ctx context.Context, actor types.AuthenticatedUser, params url.Values) (query.Page[models.Application], error) {
	spec := query.Build(params, query.ApplicationSchema).And(sq.Eq{"employer_id": actor.ID})
	return s.store.FindApplications(ctx, spec)
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, actor types.AuthenticatedUser, id uint, status string) (*models.Application, error) {
	canonical, ok := types.Canonical(status, types.ApplicationStatuses)
	if !ok {
		return nil, invalidField("status", status, types.ApplicationStatuses)
	}
	status = canonical

	app, err := s.store.ApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireManage(actor, app.EmployerID, "update this application"); err != nil {
		return nil, err
	}

	if app.Status == status {
		return app, nil
	}

	if err := s.store.UpdateApplicationStatus(ctx, app.ID, status); err != nil {
		return nil, err
	}
	app.Status = status

	title := "your application"
	if app.Job != nil {
		title = app.Job.Title
	}

	s.notifier.NotifyUser(app.CandidateID, notify.Payload{
		Type:       types.NotificationApplicationStatusUpdate,
		Title:      "Application Status Updated",
		Message:    fmt.Sprintf("Your application for %s is now %s", title, status),
		EntityType: types.EntityApplication,
		EntityID:   uintPtr(app.ID),
		Data: map[string]interface{}{
			"applicationId": app.ID,
			"jobId":         app.JobID,
			"status":        status,
		},
	})

	return app, nil
}
