package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/lib/pq"
)

type JobStore interface {
	CreateJob(ctx context.Context, job *models.Job) error
	JobByID(ctx context.Context, id uint) (*models.Job, error)
	UpdateJob(ctx context.Context, id uint, updates map[string]interface{}) error
	DeleteJob(ctx context.Context, id uint) error
	FindJobs(ctx context.Context, spec query.Spec) (query.Page[models.Job], error)
	CountApplications(ctx context.Context, jobID uint) (int64, error)
	CompanyByOwner(ctx context.Context, ownerID uint) (*models.Company, error)
	CompanyByID(ctx context.Context, id uint) (*models.Company, error)
}

type JobInput struct {
	Title               string     `json:"title" binding:"required,max=100"`
	Description         string     `json:"description" binding:"required"`
	Location            string     `json:"location" binding:"required"`
	Type                string     `json:"type" binding:"required"`
	ExperienceLevel     string     `json:"experienceLevel" binding:"required"`
	SalaryRange         string     `json:"salaryRange" binding:"required"`
	MinSalary           *int64     `json:"minSalary"`
	MaxSalary           *int64     `json:"maxSalary"`
	SkillsRequired      []string   `json:"skillsRequired"`
	Status              string     `json:"status"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
	CompanyID           *uint      `json:"companyId"`
}

type JobUpdate struct {
	Title               *string    `json:"title" binding:"omitempty,max=100"`
	Description         *string    `json:"description"`
	Location            *string    `json:"location"`
	Type                *string    `json:"type"`
	ExperienceLevel     *string    `json:"experienceLevel"`
	SalaryRange         *string    `json:"salaryRange"`
	MinSalary           *int64     `json:"minSalary"`
	MaxSalary           *int64     `json:"maxSalary"`
	SkillsRequired      []string   `json:"skillsRequired"`
	Status              *string    `json:"status"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
}

// JobDetail is a job with its derived application state.
type JobDetail struct {
	models.Job
	ApplicationsCount int64 `json:"applicationsCount"`
	IsExpired         bool  `json:"isExpired"`
	CanApply          bool  `json:"canApply"`
}

type JobService struct {
	store    JobStore
	notifier Notifier
	now      func() time.Time
}

func NewJobService(store JobStore, notifier Notifier) *JobService {
	return &JobService{store: store, notifier: notifier, now: time.Now}
}

func (s *JobService) Create(ctx context.Context, actor types.AuthenticatedUser, in JobInput) (*models.Job, error) {
	if in.ApplicationDeadline == nil {
		return nil, apperr.NewValidation("Application deadline is required")
	}
	if !in.ApplicationDeadline.After(s.now()) {
		return nil, apperr.NewValidation("Application deadline must be a future date")
	}

	jobType, ok := types.Canonical(in.Type, types.JobTypes)
	if !ok {
		return nil, invalidField("type", in.Type, types.JobTypes)
	}
	level, ok := types.Canonical(in.ExperienceLevel, types.ExperienceLevels)
	if !ok {
		return nil, invalidField("experienceLevel", in.ExperienceLevel, types.ExperienceLevels)
	}

	company, err := s.companyFor(ctx, actor, in.CompanyID)
	if err != nil {
		return nil, err
	}

	status := types.JobStatusOpen
	if strings.EqualFold(in.Status, types.JobStatusDraft) {
		status = types.JobStatusDraft
	}

	job := &models.Job{
		EmployerID:          actor.ID,
		CompanyID:           company.ID,
		Title:               strings.TrimSpace(in.Title),
		Description:         in.Description,
		Location:            strings.TrimSpace(in.Location),
		Type:                jobType,
		ExperienceLevel:     level,
		SalaryRange:         in.SalaryRange,
		SkillsRequired:      trimmed(in.SkillsRequired),
		Status:              status,
		ApplicationDeadline: *in.ApplicationDeadline,
		PostedAt:            s.now(),
	}

	if in.MinSalary != nil {
		job.MinSalary = *in.MinSalary
	}
	if in.MaxSalary != nil {
		job.MaxSalary = *in.MaxSalary
	}
	if in.MinSalary == nil || in.MaxSalary == nil {
		if lo, hi, ok := ParseSalaryRange(in.SalaryRange); ok {
			if in.MinSalary == nil {
				job.MinSalary = lo
			}
			if in.MaxSalary == nil {
				job.MaxSalary = hi
			}
		}
	}
	if job.MaxSalary > 0 && job.MinSalary > job.MaxSalary {
		return nil, apperr.NewValidation("Minimum salary cannot exceed maximum salary")
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	job.Company = company

	if job.Status == types.JobStatusOpen {
		s.announce(actor, job)
	}

	return job, nil
}

// companyFor resolves the company a job is posted under. Employers always
// post for their own company; admins may name any company.
func (s *JobService) companyFor(ctx context.Context, actor types.AuthenticatedUser, companyID *uint) (*models.Company, error) {
	if actor.IsAdmin() && companyID != nil {
		return s.store.CompanyByID(ctx, *companyID)
	}

	company, err := s.store.CompanyByOwner(ctx, actor.ID)
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.NewValidation("Please create a company profile first")
	}
	return company, err
}

func (s *JobService) announce(actor types.AuthenticatedUser, job *models.Job) {
	company := ""
	if job.Company != nil {
		company = job.Company.Name
	}

	data := map[string]interface{}{
		"jobId":    job.ID,
		"title":    job.Title,
		"company":  company,
		"location": job.Location,
	}

	s.notifier.NotifyRole(types.RoleAdmin, notify.Payload{
		Type:       types.NotificationJobPosted,
		Title:      "New Job Posted",
		Message:    actor.Name + " posted a new job: " + job.Title,
		EntityType: types.EntityJob,
		EntityID:   uintPtr(job.ID),
		Data:       data,
		Channels:   []notify.Channel{notify.InApp},
	})

	message := job.Title
	if company != "" {
		message = company + " is hiring: " + job.Title
	}

	s.notifier.NotifyRole(types.RoleCandidate, notify.Payload{
		Type:       types.NotificationJobPosted,
		Title:      "New job opportunity",
		Message:    message,
		EntityType: types.EntityJob,
		EntityID:   uintPtr(job.ID),
		Data:       data,
		Channels:   []notify.Channel{notify.InApp, notify.Push},
	}, actor.ID)
}

func (s *JobService) Update(ctx context.Context, actor types.AuthenticatedUser, id uint, in JobUpdate) (*models.Job, error) {
	job, err := s.store.JobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireManage(actor, job.EmployerID, "update this job"); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if in.ApplicationDeadline != nil {
		if !in.ApplicationDeadline.After(s.now()) {
			return nil, apperr.NewValidation("Application deadline must be a future date")
		}

		if !actor.IsAdmin() && !sameDay(job.ApplicationDeadline, *in.ApplicationDeadline) {
			count, err := s.store.CountApplications(ctx, job.ID)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, apperr.NewValidation("Cannot edit deadline because applications have already been received.")
			}
		}

		updates["application_deadline"] = *in.ApplicationDeadline
	}

	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Location != nil {
		updates["location"] = strings.TrimSpace(*in.Location)
	}
	if in.Type != nil {
		v, ok := types.Canonical(*in.Type, types.JobTypes)
		if !ok {
			return nil, invalidField("type", *in.Type, types.JobTypes)
		}
		updates["type"] = v
	}
	if in.ExperienceLevel != nil {
		v, ok := types.Canonical(*in.ExperienceLevel, types.ExperienceLevels)
		if !ok {
			return nil, invalidField("experienceLevel", *in.ExperienceLevel, types.ExperienceLevels)
		}
		updates["experience_level"] = v
	}
	if in.Status != nil {
		v, ok := types.Canonical(*in.Status, types.JobStatuses)
		if !ok {
			return nil, invalidField("status", *in.Status, types.JobStatuses)
		}
		updates["status"] = v
	}
	if in.SkillsRequired != nil {
		updates["skills_required"] = pq.StringArray(trimmed(in.SkillsRequired))
	}

	lo, hi := job.MinSalary, job.MaxSalary
	if in.SalaryRange != nil {
		updates["salary_range"] = *in.SalaryRange
		if in.MinSalary == nil || in.MaxSalary == nil {
			if plo, phi, ok := ParseSalaryRange(*in.SalaryRange); ok {
				lo, hi = plo, phi
				updates["min_salary"], updates["max_salary"] = lo, hi
			}
		}
	}
	if in.MinSalary != nil {
		lo = *in.MinSalary
		updates["min_salary"] = lo
	}
	if in.MaxSalary != nil {
		hi = *in.MaxSalary
		updates["max_salary"] = hi
	}
	if hi > 0 && lo > hi {
		return nil, apperr.NewValidation("Minimum salary cannot exceed maximum salary")
	}

	if len(updates) == 0 {
		return nil, apperr.NewValidation("No valid fields to update")
	}

	if err := s.store.UpdateJob(ctx, job.ID, updates); err != nil {
		return nil, err
	}

	return s.store.JobByID(ctx, job.ID)
}

func (s *JobService) Delete(ctx context.Context, actor types.AuthenticatedUser, id uint) error {
	job, err := s.store.JobByID(ctx, id)
	if err != nil {
		return err
	}

	if err := requireManage(actor, job.EmployerID, "delete this job"); err != nil {
		return err
	}

	return s.store.DeleteJob(ctx, job.ID)
}

func (s *JobService) Get(ctx context.Context, id uint) (*JobDetail, error) {
	job, err := s.store.JobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountApplications(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	expired := job.Expired(s.now())

	return &JobDetail{
		Job:               *job,
		ApplicationsCount: count,
		IsExpired:         expired,
		CanApply:          job.Status == types.JobStatusOpen && !expired,
	}, nil
}

// List returns open, unexpired jobs matching the request filters.
func (s *JobService) List(ctx context.Context, params url.Values) (query.Page[models.Job], error) {
	spec := query.Build(params, query.JobSchema).And(s.openPredicates()...)
	return s.store.FindJobs(ctx, spec)
}

// Feed is List for a candidate, without the jobs they already applied to.
func (s *JobService) Feed(ctx context.Context, actor types.AuthenticatedUser, params url.Values) (query.Page[models.Job], error) {
	spec := query.Build(params, query.FeedSchema).
		And(s.openPredicates()...).
		And(sq.Expr("NOT EXISTS (SELECT 1 FROM applications a WHERE a.job_id = jobs.id AND a.candidate_id = ?)", actor.ID))
	return s.store.FindJobs(ctx, spec)
}

// Mine lists every job posted by the employer regardless of status.
func (s *JobService) Mine(ctx context.Context, actor types.AuthenticatedUser, params url.Values) (query.Page[models.Job], error) {
	spec := query.Build(params, query.JobSchema).And(sq.Eq{"employer_id": actor.ID})
	return s.store.FindJobs(ctx, spec)
}

func (s *JobService) openPredicates() []sq.Sqlizer {
	return []sq.Sqlizer{
		sq.Eq{"status": types.JobStatusOpen},
		sq.Gt{"application_deadline": s.now()},
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func invalidField(field, value string, allowed []string) error {
	return apperr.NewFieldValidation("Invalid "+field, apperr.FieldError{
		Field:   field,
		Message: "'" + value + "' is not one of: " + strings.Join(allowed, ", "),
	})
}
