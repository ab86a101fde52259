package services

import (
	"context"
	"net/url"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
)

type EmployerStore interface {
	FindCandidates(ctx context.Context, spec query.Spec) (query.Page[models.CandidateProfile], error)
	ProfileByID(ctx context.Context, id uint) (*models.CandidateProfile, error)
	ProfileByUserID(ctx context.Context, userID uint) (*models.CandidateProfile, error)
}

type EmployerService struct {
	store    EmployerStore
	notifier Notifier
}

func NewEmployerService(store EmployerStore, notifier Notifier) *EmployerService {
	return &EmployerService{store: store, notifier: notifier}
}

// SearchCandidates pages through active candidate profiles.
func (s *EmployerService) SearchCandidates(ctx context.Context, params url.Values) (query.Page[models.CandidateProfile], error) {
	return s.store.FindCandidates(ctx, query.Build(params, query.CandidateSchema))
}

// Candidate looks a candidate up by profile id, then by user id. Blocked
// users and non-candidates are reported as not found.
func (s *EmployerService) Candidate(ctx context.Context, actor types.AuthenticatedUser, id uint) (*models.CandidateProfile, error) {
	profile, err := s.store.ProfileByID(ctx, id)
	if apperr.Is(err, apperr.NotFound) {
		profile, err = s.store.ProfileByUserID(ctx, id)
	}
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.NewNotFound("Candidate not found")
	}
	if err != nil {
		return nil, err
	}

	user := profile.User
	if user == nil || user.Role != types.RoleCandidate || user.Status != types.UserStatusActive {
		return nil, apperr.NewNotFound("Candidate not available")
	}

	if actor.ID != profile.UserID {
		s.notifier.NotifyUser(profile.UserID, notify.Payload{
			Type:       types.NotificationProfileViewed,
			Title:      "Profile Viewed",
			Message:    actor.Name + " viewed your profile",
			EntityType: types.EntityUser,
			EntityID:   uintPtr(actor.ID),
			Data:       map[string]interface{}{"viewerId": actor.ID, "viewerRole": actor.Role},
			Channels:   []notify.Channel{notify.InApp},
		})
	}

	return profile, nil
}
