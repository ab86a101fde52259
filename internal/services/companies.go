package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
)

type CompanyStore interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	CompanyByID(ctx context.Context, id uint) (*models.Company, error)
	CompanyByOwner(ctx context.Context, ownerID uint) (*models.Company, error)
	UpdateCompany(ctx context.Context, id uint, updates map[string]interface{}) error
	FindCompanies(ctx context.Context, spec query.Spec) (query.Page[models.Company], error)
}

type CompanyInput struct {
	Name           string `json:"name" binding:"required,max=100"`
	Description    string `json:"description" binding:"required"`
	LogoURL        string `json:"logoUrl"`
	Website        string `json:"website" binding:"omitempty,url"`
	Location       string `json:"location" binding:"required"`
	EmployeesCount string `json:"employeesCount"`
}

type CompanyUpdate struct {
	Name           *string `json:"name" binding:"omitempty,max=100"`
	Description    *string `json:"description"`
	LogoURL        *string `json:"logoUrl"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	EmployeesCount *string `json:"employeesCount"`
}

type CompanyService struct {
	store CompanyStore
}

func NewCompanyService(store CompanyStore) *CompanyService {
	return &CompanyService{store: store}
}

// Create registers the actor's company. An employer owns at most one.
func (s *CompanyService) Create(ctx context.Context, actor types.AuthenticatedUser, in CompanyInput) (*models.Company, error) {
	_, err := s.store.CompanyByOwner(ctx, actor.ID)
	switch {
	case err == nil:
		return nil, apperr.NewConflict("You already have a company profile")
	case !apperr.Is(err, apperr.NotFound):
		return nil, err
	}

	count := "1-10"
	if in.EmployeesCount != "" {
		v, ok := types.Canonical(in.EmployeesCount, types.EmployeesCounts)
		if !ok {
			return nil, invalidField("employeesCount", in.EmployeesCount, types.EmployeesCounts)
		}
		count = v
	}

	company := &models.Company{
		OwnerID:        actor.ID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		LogoURL:        in.LogoURL,
		Website:        strings.TrimSpace(in.Website),
		Location:       strings.TrimSpace(in.Location),
		EmployeesCount: count,
	}
	if company.LogoURL == "" {
		company.LogoURL = "no-photo.jpg"
	}

	if err := s.store.CreateCompany(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) Get(ctx context.Context, id uint) (*models.Company, error) {
	return s.store.CompanyByID(ctx, id)
}

// Mine returns the actor's company, or nil when they have not created one yet.
func (s *CompanyService) Mine(ctx context.Context, actor types.AuthenticatedUser) (*models.Company, error) {
	company, err := s.store.CompanyByOwner(ctx, actor.ID)
	if apperr.Is(err, apperr.NotFound) {
		return nil, nil
	}
	return company, err
}

func (s *CompanyService) List(ctx context.Context, params url.Values) (query.Page[models.Company], error) {
	return s.store.FindCompanies(ctx, query.Build(params, query.CompanySchema))
}

func (s *CompanyService) Update(ctx context.Context, actor types.AuthenticatedUser, id uint, in CompanyUpdate) (*models.Company, error) {
	company, err := s.store.CompanyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireManage(actor, company.OwnerID, "update this company"); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.NewValidation("Company name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.LogoURL != nil {
		updates["logo_url"] = *in.LogoURL
	}
	if in.Website != nil {
		updates["website"] = strings.TrimSpace(*in.Website)
	}
	if in.Location != nil {
		updates["location"] = strings.TrimSpace(*in.Location)
	}
	if in.EmployeesCount != nil {
		v, ok := types.Canonical(*in.EmployeesCount, types.EmployeesCounts)
		if !ok {
			return nil, invalidField("employeesCount", *in.EmployeesCount, types.EmployeesCounts)
		}
		updates["employees_count"] = v
	}

	if len(updates) == 0 {
		return nil, apperr.NewValidation("No valid fields to update")
	}

	if err := s.store.UpdateCompany(ctx, company.ID, updates); err != nil {
		return nil, err
	}
	return s.store.CompanyByID(ctx, company.ID)
}
