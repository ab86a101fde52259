package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileStore struct {
	CandidateStore

	profiles map[uint]*models.CandidateProfile
	saves    int
}

func (f *fakeProfileStore) ProfileByUserID(_ context.Context, userID uint) (*models.CandidateProfile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, apperr.NewNotFound("Candidate profile not found")
}

func (f *fakeProfileStore) ProfileByID(_ context.Context, id uint) (*models.CandidateProfile, error) {
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperr.NewNotFound("Candidate profile not found")
}

func (f *fakeProfileStore) SaveProfile(_ context.Context, profile *models.CandidateProfile) error {
	f.saves++
	if profile.ID == 0 {
		profile.ID = uint(100 + len(f.profiles))
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileStore) FindCandidates(_ context.Context, spec query.Spec) (query.Page[models.CandidateProfile], error) {
	return query.Page[models.CandidateProfile]{Page: spec.Page, Limit: spec.Limit}, nil
}

func TestUpdateProfileCreatesOnFirstUse(t *testing.T) {
	store := &fakeProfileStore{profiles: map[uint]*models.CandidateProfile{}}
	svc := NewCandidateService(store)

	title := " Go Developer "
	profile, err := svc.UpdateProfile(context.Background(), candidate(5), ProfileInput{
		Title:  &title,
		Skills: []string{"Go", " ", "Postgres"},
	})
	require.NoError(t, err)

	assert.Equal(t, uint(5), profile.UserID)
	assert.Equal(t, "Go Developer", profile.Title)
	assert.Equal(t, []string{"Go", "Postgres"}, []string(profile.Skills))
	assert.Equal(t, 1, store.saves)
}

func TestResumeDefaultFollowsRemoval(t *testing.T) {
	assert := assert.New(t)

	store := &fakeProfileStore{profiles: map[uint]*models.CandidateProfile{}}
	svc := NewCandidateService(store)
	svc.now = fixedClock
	ctx := context.Background()

	profile, err := svc.AddResume(ctx, candidate(5), ResumeInput{Name: "cv.pdf", URL: "https://cdn/cv.pdf"})
	require.NoError(t, err)
	assert.Equal("https://cdn/cv.pdf", profile.DefaultResumeURL)

	profile, err = svc.AddResume(ctx, candidate(5), ResumeInput{Name: "cv2.pdf", URL: "https://cdn/cv2.pdf"})
	require.NoError(t, err)
	require.Len(t, profile.Resumes, 2)
	assert.Equal("https://cdn/cv.pdf", profile.DefaultResumeURL)
	assert.Equal(testNow, profile.Resumes[1].UploadedAt)

	profile, err = svc.RemoveResume(ctx, candidate(5), profile.Resumes[0].ID)
	require.NoError(t, err)
	require.Len(t, profile.Resumes, 1)
	assert.Equal("https://cdn/cv2.pdf", profile.DefaultResumeURL)

	_, err = svc.RemoveResume(ctx, candidate(5), "missing")
	assert.Equal(apperr.NotFound, apperr.KindOf(err))

	profile, err = svc.RemoveResume(ctx, candidate(5), profile.Resumes[0].ID)
	require.NoError(t, err)
	assert.Empty(profile.Resumes)
	assert.Empty(profile.DefaultResumeURL)
}

func TestDefaultResumeMustExist(t *testing.T) {
	store := &fakeProfileStore{profiles: map[uint]*models.CandidateProfile{}}
	svc := NewCandidateService(store)

	link := "https://elsewhere/cv.pdf"
	_, err := svc.UpdateProfile(context.Background(), candidate(5), ProfileInput{DefaultResumeURL: &link})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestEmployerViewsCandidate(t *testing.T) {
	store := &fakeProfileStore{profiles: map[uint]*models.CandidateProfile{
		5: {
			BaseModel: models.BaseModel{ID: 40},
			UserID:    5,
			User:      &models.User{BaseModel: models.BaseModel{ID: 5}, Role: types.RoleCandidate, Status: types.UserStatusActive},
		},
		6: {
			BaseModel: models.BaseModel{ID: 41},
			UserID:    6,
			User:      &models.User{BaseModel: models.BaseModel{ID: 6}, Role: types.RoleCandidate, Status: types.UserStatusBlocked},
		},
	}}
	notifier := &recordingNotifier{}
	svc := NewEmployerService(store, notifier)
	ctx := context.Background()

	byProfile, err := svc.Candidate(ctx, employer(2), 40)
	require.NoError(t, err)
	assert.Equal(t, uint(5), byProfile.UserID)

	byUser, err := svc.Candidate(ctx, employer(2), 5)
	require.NoError(t, err)
	assert.Equal(t, uint(40), byUser.ID)

	notes := notifier.toUser(5)
	require.Len(t, notes, 2)
	assert.Equal(t, types.NotificationProfileViewed, notes[0].Type)
	assert.Equal(t, []notify.Channel{notify.InApp}, notes[0].Channels)

	_, err = svc.Candidate(ctx, employer(2), 41)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = svc.Candidate(ctx, employer(2), 999)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestSearchCandidatesUsesCandidateSchema(t *testing.T) {
	store := &fakeProfileStore{profiles: map[uint]*models.CandidateProfile{}}
	svc := NewEmployerService(store, &recordingNotifier{})

	page, err := svc.SearchCandidates(context.Background(), url.Values{"limit": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Limit)
}

type fakeCompanyStore struct {
	CompanyStore

	companies map[uint]*models.Company
}

func (f *fakeCompanyStore) CreateCompany(_ context.Context, c *models.Company) error {
	c.ID = uint(len(f.companies) + 1)
	f.companies[c.ID] = c
	return nil
}

func (f *fakeCompanyStore) CompanyByID(_ context.Context, id uint) (*models.Company, error) {
	if c, ok := f.companies[id]; ok {
		return c, nil
	}
	return nil, apperr.NewNotFound("Company not found")
}

func (f *fakeCompanyStore) CompanyByOwner(_ context.Context, ownerID uint) (*models.Company, error) {
	for _, c := range f.companies {
		if c.OwnerID == ownerID {
			return c, nil
		}
	}
	return nil, apperr.NewNotFound("Company not found")
}

func (f *fakeCompanyStore) UpdateCompany(_ context.Context, id uint, updates map[string]interface{}) error {
	if name, ok := updates["name"].(string); ok {
		f.companies[id].Name = name
	}
	return nil
}

func TestCompanyLifecycle(t *testing.T) {
	assert := assert.New(t)

	store := &fakeCompanyStore{companies: map[uint]*models.Company{}}
	svc := NewCompanyService(store)
	ctx := context.Background()

	mine, err := svc.Mine(ctx, employer(2))
	require.NoError(t, err)
	assert.Nil(mine)

	company, err := svc.Create(ctx, employer(2), CompanyInput{Name: "Acme", Description: "d", Location: "Remote", EmployeesCount: "11-50"})
	require.NoError(t, err)
	assert.Equal(uint(2), company.OwnerID)
	assert.Equal("no-photo.jpg", company.LogoURL)

	_, err = svc.Create(ctx, employer(2), CompanyInput{Name: "Acme Two", Description: "d", Location: "Remote"})
	assert.Equal(apperr.Conflict, apperr.KindOf(err))
	assert.Contains(err.Error(), "You already have a company profile")

	name := "Acme Corp"
	_, err = svc.Update(ctx, employer(3), company.ID, CompanyUpdate{Name: &name})
	assert.Equal(apperr.Forbidden, apperr.KindOf(err))

	updated, err := svc.Update(ctx, employer(2), company.ID, CompanyUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal("Acme Corp", updated.Name)

	bad := "1000+"
	_, err = svc.Update(ctx, admin(1), company.ID, CompanyUpdate{EmployeesCount: &bad})
	assert.Equal(apperr.Validation, apperr.KindOf(err))
}

type fakeAdminStore struct {
	AdminStore

	users    map[uint]*models.User
	contents []models.Content
	upserted *models.Content
}

func (f *fakeAdminStore) UserByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NewNotFound("User not found")
}

func (f *fakeAdminStore) UpdateUser(_ context.Context, id uint, updates map[string]interface{}) error {
	if status, ok := updates["status"].(string); ok {
		f.users[id].Status = status
	}
	return nil
}

func (f *fakeAdminStore) Contents(context.Context) ([]models.Content, error) {
	return f.contents, nil
}

func (f *fakeAdminStore) UpsertContent(_ context.Context, c *models.Content) error {
	f.upserted = c
	return nil
}

func TestAdminContentDefaults(t *testing.T) {
	store := &fakeAdminStore{contents: []models.Content{{Key: "about", Value: "We hire."}}}
	svc := NewAdminService(store)

	content, err := svc.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"about": "We hire.", "terms": "", "privacy": ""}, content)

	_, err = svc.UpdateContent(context.Background(), admin(1), ContentInput{Key: "faq", Value: "x"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	saved, err := svc.UpdateContent(context.Background(), admin(1), ContentInput{Key: "Terms", Value: "Be nice."})
	require.NoError(t, err)
	assert.Equal(t, "terms", saved.Key)
	require.NotNil(t, saved.LastUpdatedBy)
	assert.Equal(t, uint(1), *saved.LastUpdatedBy)
}

func TestAdminBlocksUser(t *testing.T) {
	store := &fakeAdminStore{users: map[uint]*models.User{
		1: {BaseModel: models.BaseModel{ID: 1}, Role: types.RoleAdmin, Status: types.UserStatusActive},
		5: {BaseModel: models.BaseModel{ID: 5}, Role: types.RoleCandidate, Status: types.UserStatusActive},
	}}
	svc := NewAdminService(store)
	ctx := context.Background()

	blocked := "Blocked"
	user, err := svc.UpdateUser(ctx, admin(1), 5, UserUpdate{Status: &blocked})
	require.NoError(t, err)
	assert.Equal(t, types.UserStatusBlocked, user.Status)

	_, err = svc.UpdateUser(ctx, admin(1), 1, UserUpdate{Status: &blocked})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	err = svc.DeleteUser(ctx, admin(1), 1)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}
