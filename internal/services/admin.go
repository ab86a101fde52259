package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/store"
	"github.com/kriti-labs/jobportal/internal/types"
)

const (
	activityPerKind = 5
	activityTotal   = 10
	growthMonths    = 6
)

type AdminStore interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error
	DeleteUser(ctx context.Context, id uint) error
	FindUsers(ctx context.Context, spec query.Spec) (query.Page[models.User], error)
	Contents(ctx context.Context) ([]models.Content, error)
	UpsertContent(ctx context.Context, content *models.Content) error
	Report(ctx context.Context) (*store.Report, error)
	RecentActivity(ctx context.Context, perKind, total int) ([]store.Activity, error)
	UserGrowth(ctx context.Context, since time.Time) ([]store.GrowthPoint, error)
}

type UserUpdate struct {
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

type ContentInput struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

type AdminService struct {
	store AdminStore
	now   func() time.Time
}

func NewAdminService(store AdminStore) *AdminService {
	return &AdminService{store: store, now: time.Now}
}

func (s *AdminService) Users(ctx context.Context, params url.Values) (query.Page[models.User], error) {
	return s.store.FindUsers(ctx, query.Build(params, query.UserSchema))
}

func (s *AdminService) User(ctx context.Context, id uint) (*models.User, error) {
	return s.store.UserByID(ctx, id)
}

// UpdateUser changes a user's name, role or status. Admins cannot change
// their own role or status.
func (s *AdminService) UpdateUser(ctx context.Context, actor types.AuthenticatedUser, id uint, in UserUpdate) (*models.User, error) {
	user, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.NewValidation("Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Role != nil {
		role, ok := types.Canonical(*in.Role, types.Roles)
		if !ok {
			return nil, invalidField("role", *in.Role, types.Roles)
		}
		if user.ID == actor.ID && role != user.Role {
			return nil, apperr.NewValidation("You cannot change your own role")
		}
		updates["role"] = role
	}
	if in.Status != nil {
		status, ok := types.Canonical(*in.Status, types.UserStatuses)
		if !ok {
			return nil, invalidField("status", *in.Status, types.UserStatuses)
		}
		if user.ID == actor.ID && status != user.Status {
			return nil, apperr.NewValidation("You cannot change your own status")
		}
		updates["status"] = status
	}

	if len(updates) == 0 {
		return nil, apperr.NewValidation("No valid fields to update")
	}

	if err := s.store.UpdateUser(ctx, user.ID, updates); err != nil {
		return nil, err
	}
	return s.store.UserByID(ctx, user.ID)
}

func (s *AdminService) DeleteUser(ctx context.Context, actor types.AuthenticatedUser, id uint) error {
	if id == actor.ID {
		return apperr.NewValidation("You cannot delete your own account")
	}
	return s.store.DeleteUser(ctx, id)
}

// Content returns every content page keyed by name. Known keys default to "".
func (s *AdminService) Content(ctx context.Context) (map[string]string, error) {
	contents, err := s.store.Contents(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(types.ContentKeys))
	for _, key := range types.ContentKeys {
		out[key] = ""
	}
	for _, c := range contents {
		out[c.Key] = c.Value
	}
	return out, nil
}

func (s *AdminService) UpdateContent(ctx context.Context, actor types.AuthenticatedUser, in ContentInput) (*models.Content, error) {
	key := strings.ToLower(strings.TrimSpace(in.Key))
	if !types.OneOf(key, types.ContentKeys) {
		return nil, apperr.NewValidation("Invalid content key")
	}

	content := &models.Content{
		Key:           key,
		Value:         in.Value,
		LastUpdatedBy: uintPtr(actor.ID),
	}
	if err := s.store.UpsertContent(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *AdminService) Stats(ctx context.Context) (*store.Report, error) {
	return s.store.Report(ctx)
}

func (s *AdminService) Activity(ctx context.Context) ([]store.Activity, error) {
	return s.store.RecentActivity(ctx, activityPerKind, activityTotal)
}

func (s *AdminService) Growth(ctx context.Context) ([]store.GrowthPoint, error) {
	return s.store.UserGrowth(ctx, s.now().AddDate(0, -growthMonths, 0))
}
