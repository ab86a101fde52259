package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/lib/pq"
)

type CandidateStore interface {
	ProfileByUserID(ctx context.Context, userID uint) (*models.CandidateProfile, error)
	SaveProfile(ctx context.Context, profile *models.CandidateProfile) error
	JobByID(ctx context.Context, id uint) (*models.Job, error)
	SaveJobFor(ctx context.Context, userID, jobID uint) error
	UnsaveJob(ctx context.Context, userID, jobID uint) error
	SavedJobs(ctx context.Context, userID uint, now time.Time) ([]models.Job, error)
}

type ProfileInput struct {
	Title     *string  `json:"title" binding:"omitempty,max=100"`
	Location  *string  `json:"location"`
	About     *string  `json:"about" binding:"omitempty,max=1000"`
	Skills    []string `json:"skills"`
	Phone     *string  `json:"phone"`
	AvatarURL *string  `json:"avatarUrl"`
	// DefaultResumeURL must name one of the stored resumes.
	DefaultResumeURL *string `json:"defaultResumeUrl"`
}

type ResumeInput struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

type CandidateService struct {
	store CandidateStore
	now   func() time.Time
}

func NewCandidateService(store CandidateStore) *CandidateService {
	return &CandidateService{store: store, now: time.Now}
}

// Profile returns the actor's profile, or nil when none exists yet.
func (s *CandidateService) Profile(ctx context.Context, actor types.AuthenticatedUser) (*models.CandidateProfile, error) {
	profile, err := s.store.ProfileByUserID(ctx, actor.ID)
	if apperr.Is(err, apperr.NotFound) {
		return nil, nil
	}
	return profile, err
}

// loadOrNew returns the stored profile or an unsaved empty one.
func (s *CandidateService) loadOrNew(ctx context.Context, userID uint) (*models.CandidateProfile, error) {
	profile, err := s.store.ProfileByUserID(ctx, userID)
	if apperr.Is(err, apperr.NotFound) {
		return &models.CandidateProfile{UserID: userID}, nil
	}
	return profile, err
}

// UpdateProfile creates the profile on first use and applies the given fields.
func (s *CandidateService) UpdateProfile(ctx context.Context, actor types.AuthenticatedUser, in ProfileInput) (*models.CandidateProfile, error) {
	profile, err := s.loadOrNew(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		profile.Title = strings.TrimSpace(*in.Title)
	}
	if in.Location != nil {
		profile.Location = strings.TrimSpace(*in.Location)
	}
	if in.About != nil {
		profile.About = *in.About
	}
	if in.Skills != nil {
		profile.Skills = pq.StringArray(trimmed(in.Skills))
	}
	if in.Phone != nil {
		profile.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.AvatarURL != nil {
		profile.AvatarURL = *in.AvatarURL
	}
	if in.DefaultResumeURL != nil {
		if !hasResume(profile.Resumes, *in.DefaultResumeURL) {
			return nil, apperr.NewValidation("Default resume must be one of your uploaded resumes")
		}
		profile.DefaultResumeURL = *in.DefaultResumeURL
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *CandidateService) AddResume(ctx context.Context, actor types.AuthenticatedUser, in ResumeInput) (*models.CandidateProfile, error) {
	profile, err := s.loadOrNew(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	profile.Resumes = append(profile.Resumes, models.Resume{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		URL:        in.URL,
		UploadedAt: s.now(),
	})
	if profile.DefaultResumeURL == "" {
		profile.DefaultResumeURL = in.URL
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveResume drops a resume. When it was the default, the first remaining
// resume becomes the default.
func (s *CandidateService) RemoveResume(ctx context.Context, actor types.AuthenticatedUser, resumeID string) (*models.CandidateProfile, error) {
	profile, err := s.store.ProfileByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	kept := profile.Resumes[:0]
	found := false
	for _, r := range profile.Resumes {
		if r.ID == resumeID {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return nil, apperr.NewNotFound("Resume not found")
	}
	profile.Resumes = kept

	switch {
	case len(kept) == 0:
		profile.DefaultResumeURL = ""
	case !hasResume(kept, profile.DefaultResumeURL):
		profile.DefaultResumeURL = kept[0].URL
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SavedJobs lists saved jobs that are still open and not applied to.
func (s *CandidateService) SavedJobs(ctx context.Context, actor types.AuthenticatedUser) ([]models.Job, error) {
	return s.store.SavedJobs(ctx, actor.ID, s.now())
}

func (s *CandidateService) SaveJob(ctx context.Context, actor types.AuthenticatedUser, jobID uint) ([]models.Job, error) {
	if _, err := s.store.JobByID(ctx, jobID); err != nil {
		return nil, err
	}
	if err := s.store.SaveJobFor(ctx, actor.ID, jobID); err != nil {
		return nil, err
	}
	return s.SavedJobs(ctx, actor)
}

func (s *CandidateService) RemoveSavedJob(ctx context.Context, actor types.AuthenticatedUser, jobID uint) ([]models.Job, error) {
	if err := s.store.UnsaveJob(ctx, actor.ID, jobID); err != nil {
		return nil, err
	}
	return s.SavedJobs(ctx, actor)
}

func hasResume(resumes []models.Resume, url string) bool {
	for _, r := range resumes {
		if r.URL == url {
			return true
		}
	}
	return false
}
