package store

import (
	"context"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/query"
)

func (s *Store) CreateCompany(ctx context.Context, company *models.Company) error {
	err := s.db.WithContext(ctx).Create(company).Error
	return check(err, "unable to create company", "", "Company name or owner already registered")
}

func (s *Store) CompanyByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	err := s.db.WithContext(ctx).First(&company, id).Error
	if err != nil {
		return nil, check(err, "unable to look up company", "Company not found", "")
	}
	return &company, nil
}

func (s *Store) CompanyByOwner(ctx context.Context, ownerID uint) (*models.Company, error) {
	var company models.Company
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&company).Error
	if err != nil {
		return nil, check(err, "unable to look up company", "Company not found", "")
	}
	return &company, nil
}

func (s *Store) UpdateCompany(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Company{}).Where("id = ?", id).Updates(updates)
	if err := check(res.Error, "unable to update company", "", "Company name already registered"); err != nil {
		return err
	}
	return notFoundIfNone(res, "unable to update company", "Company not found")
}

func (s *Store) FindCompanies(ctx context.Context, spec query.Spec) (query.Page[models.Company], error) {
	return query.Find[models.Company](ctx, s.db, spec)
}
