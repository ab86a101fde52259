package services

import (
	"context"
	"testing"
	"time"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appKey struct {
	jobID       uint
	candidateID uint
}

type fakeApplicationStore struct {
	ApplicationStore

	jobs      map[uint]*models.Job
	apps      map[appKey]*models.Application
	byID      map[uint]*models.Application
	unsaved   []uint
	statusSet int
	createErr error
	unsaveErr error
	lastSpec  query.Spec
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{
		jobs: map[uint]*models.Job{},
		apps: map[appKey]*models.Application{},
		byID: map[uint]*models.Application{},
	}
}

func (f *fakeApplicationStore) JobByID(_ context.Context, id uint) (*models.Job, error) {
	if job, ok := f.jobs[id]; ok {
		return job, nil
	}
	return nil, apperr.NewNotFound("Job not found")
}

func (f *fakeApplicationStore) CreateApplication(_ context.Context, app *models.Application) error {
	if f.createErr != nil {
		return f.createErr
	}
	app.ID = uint(len(f.byID) + 1)
	f.apps[appKey{app.JobID, app.CandidateID}] = app
	f.byID[app.ID] = app
	return nil
}

func (f *fakeApplicationStore) ApplicationByID(_ context.Context, id uint) (*models.Application, error) {
	if app, ok := f.byID[id]; ok {
		copied := *app
		return &copied, nil
	}
	return nil, apperr.NewNotFound("Application not found")
}

func (f *fakeApplicationStore) ApplicationFor(_ context.Context, jobID, candidateID uint) (*models.Application, error) {
	if app, ok := f.apps[appKey{jobID, candidateID}]; ok {
		return app, nil
	}
	return nil, apperr.NewNotFound("Application not found")
}

func (f *fakeApplicationStore) UpdateApplicationStatus(_ context.Context, id uint, status string) error {
	f.statusSet++
	f.byID[id].Status = status
	return nil
}

func (f *fakeApplicationStore) FindApplications(_ context.Context, spec query.Spec) (query.Page[models.Application], error) {
	f.lastSpec = spec
	return query.Page[models.Application]{}, nil
}

func (f *fakeApplicationStore) UnsaveJob(_ context.Context, _, jobID uint) error {
	if f.unsaveErr != nil {
		return f.unsaveErr
	}
	f.unsaved = append(f.unsaved, jobID)
	return nil
}

func newApplicationService(store ApplicationStore, notifier Notifier) *ApplicationService {
	s := NewApplicationService(store, notifier)
	s.now = fixedClock
	return s
}

func openJob(id uint) *models.Job {
	return &models.Job{
		BaseModel:           models.BaseModel{ID: id},
		EmployerID:          2,
		Title:               "Backend Engineer",
		Status:              types.JobStatusOpen,
		ApplicationDeadline: testNow.Add(48 * time.Hour),
	}
}

func TestApplyNotifiesEmployerOnce(t *testing.T) {
	assert := assert.New(t)

	store := newFakeApplicationStore()
	store.jobs[7] = openJob(7)
	notifier := &recordingNotifier{}
	svc := newApplicationService(store, notifier)

	app, err := svc.Apply(context.Background(), candidate(5), ApplyInput{JobID: 7, ResumeURL: "https://cdn/cv.pdf"})
	require.NoError(t, err)

	assert.Equal(uint(2), app.EmployerID)
	assert.Equal(types.ApplicationStatusApplied, app.Status)
	assert.Equal([]uint{7}, store.unsaved)

	employerNotes := notifier.toUser(2)
	require.Len(t, employerNotes, 1)
	assert.Equal(types.NotificationApplicationReceived, employerNotes[0].Type)

	candidateNotes := notifier.toUser(5)
	require.Len(t, candidateNotes, 1)
	assert.Equal(types.NotificationJobApplied, candidateNotes[0].Type)
	assert.Equal([]notify.Channel{notify.InApp}, candidateNotes[0].Channels)
}

func TestApplyPreconditions(t *testing.T) {
	closed := openJob(8)
	closed.Status = types.JobStatusClosed

	expired := openJob(9)
	expired.ApplicationDeadline = testNow.Add(-time.Second)

	tests := []struct {
		name  string
		jobID uint
		kind  apperr.Kind
	}{
		{"missing job", 404, apperr.NotFound},
		{"closed job", 8, apperr.Validation},
		{"deadline passed", 9, apperr.Validation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeApplicationStore()
			store.jobs[8] = closed
			store.jobs[9] = expired
			notifier := &recordingNotifier{}
			svc := newApplicationService(store, notifier)

			_, err := svc.Apply(context.Background(), candidate(5), ApplyInput{JobID: tt.jobID, ResumeURL: "cv"})
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Empty(t, store.byID)
			assert.Empty(t, notifier.users)
		})
	}
}

func TestApplyTwiceIsConflict(t *testing.T) {
	store := newFakeApplicationStore()
	store.jobs[7] = openJob(7)
	notifier := &recordingNotifier{}
	svc := newApplicationService(store, notifier)

	_, err := svc.Apply(context.Background(), candidate(5), ApplyInput{JobID: 7, ResumeURL: "cv"})
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), candidate(5), ApplyInput{JobID: 7, ResumeURL: "cv"})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Len(t, notifier.toUser(2), 1)
}

func TestApplyRaceSurfacesConflict(t *testing.T) {
	store := newFakeApplicationStore()
	store.jobs[7] = openJob(7)
	store.createErr = apperr.NewConflict("You have already applied for this job")
	notifier := &recordingNotifier{}
	svc := newApplicationService(store, notifier)

	_, err := svc.Apply(context.Background(), candidate(5), ApplyInput{JobID: 7, ResumeURL: "cv"})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Empty(t, notifier.users)
}

func TestApplySurvivesSavedJobCleanupFailure(t *testing.T) {
	store := newFakeApplicationStore()
	store.jobs[7] = openJob(7)
	store.unsaveErr = errors.New("connection reset")
	notifier := &recordingNotifier{}
	svc := newApplicationService(store, notifier)

	app, err := svc.Apply(context.Background(), candidate(5), ApplyInput{JobID: 7, ResumeURL: "cv"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), app.JobID)
	assert.Len(t, store.byID, 1)

	require.Len(t, notifier.toUser(2), 1)
	assert.Equal(t, types.NotificationApplicationReceived, notifier.toUser(2)[0].Type)
	assert.Len(t, notifier.toUser(5), 1)
}

func TestCheckWithoutApplication(t *testing.T) {
	svc := newApplicationService(newFakeApplicationStore(), &recordingNotifier{})

	app, err := svc.Check(context.Background(), candidate(5), 7)
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestUpdateStatusNotifiesOnlyOnChange(t *testing.T) {
	assert := assert.New(t)

	store := newFakeApplicationStore()
	store.byID[1] = &models.Application{
		BaseModel:   models.BaseModel{ID: 1},
		JobID:       7,
		CandidateID: 5,
		EmployerID:  2,
		Status:      types.ApplicationStatusApplied,
		Job:         openJob(7),
	}
	notifier := &recordingNotifier{}
	svc := newApplicationService(store, notifier)

	app, err := svc.UpdateStatus(context.Background(), employer(2), 1, "reviewing")
	require.NoError(t, err)
	assert.Equal(types.ApplicationStatusReviewing, app.Status)

	notes := notifier.toUser(5)
	require.Len(t, notes, 1)
	assert.Equal(types.NotificationApplicationStatusUpdate, notes[0].Type)

	_, err = svc.UpdateStatus(context.Background(), employer(2), 1, "Reviewing")
	require.NoError(t, err)
	assert.Len(notifier.toUser(5), 1)
	assert.Equal(1, store.statusSet)
}

func TestUpdateStatusValidation(t *testing.T) {
	store := newFakeApplicationStore()
	store.byID[1] = &models.Application{BaseModel: models.BaseModel{ID: 1}, EmployerID: 2, Status: types.ApplicationStatusApplied}
	svc := newApplicationService(store, &recordingNotifier{})

	_, err := svc.UpdateStatus(context.Background(), employer(2), 1, "Hired")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.UpdateStatus(context.Background(), employer(3), 1, "Rejected")
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	_, err = svc.UpdateStatus(context.Background(), admin(1), 1, "Rejected")
	assert.NoError(t, err)
}
