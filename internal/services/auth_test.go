package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/auth"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthStore struct {
	users map[uint]*models.User
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{users: map[uint]*models.User{}}
}

func (f *fakeAuthStore) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperr.NewConflict("User with this email already exists")
		}
	}
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeAuthStore) UserByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NewNotFound("User not found")
}

func (f *fakeAuthStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NewNotFound("User not found")
}

func (f *fakeAuthStore) UserByResetToken(_ context.Context, hash string, now time.Time) (*models.User, error) {
	for _, u := range f.users {
		if u.PasswordResetToken == hash && u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now) {
			return u, nil
		}
	}
	return nil, apperr.NewNotFound("Token is invalid or has expired")
}

func (f *fakeAuthStore) UpdateUser(_ context.Context, id uint, updates map[string]interface{}) error {
	u, ok := f.users[id]
	if !ok {
		return apperr.NewNotFound("User not found")
	}
	for k, v := range updates {
		switch k {
		case "password_hash":
			u.PasswordHash = v.(string)
		case "password_reset_token":
			u.PasswordResetToken = v.(string)
		case "password_reset_expires":
			if t, ok := v.(time.Time); ok {
				u.PasswordResetExpires = &t
			} else {
				u.PasswordResetExpires = nil
			}
		case "last_login":
			t := v.(time.Time)
			u.LastLogin = &t
		}
	}
	return nil
}

type fakeMailer struct {
	err  error
	sent []string
}

func (m *fakeMailer) SendEmail(_ context.Context, to, _, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+body)
	return nil
}

func newAuthService(t *testing.T, store AuthStore, mailer notify.Mailer, notifier Notifier) *AuthService {
	issuer, err := auth.NewIssuer("test-secret", "test-refresh", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	s := NewAuthService(store, issuer, mailer, notifier, "http://localhost:5173/")
	s.now = fixedClock
	return s
}

func TestSignup(t *testing.T) {
	assert := assert.New(t)

	store := newFakeAuthStore()
	notifier := &recordingNotifier{}
	svc := newAuthService(t, store, &fakeMailer{}, notifier)

	resp, err := svc.Signup(context.Background(), SignupInput{
		Name:     " Dana ",
		Email:    " Dana@Example.com ",
		Password: "secret123",
		Role:     "Employer",
	})
	require.NoError(t, err)

	assert.NotEmpty(resp.Token)
	assert.NotEmpty(resp.RefreshToken)
	assert.Equal("dana@example.com", resp.User.Email)
	assert.Equal(types.RoleEmployer, resp.User.Role)
	assert.NotEqual("secret123", store.users[1].PasswordHash)

	notes := notifier.toUser(1)
	require.Len(t, notes, 1)
	assert.Equal(types.NotificationWelcome, notes[0].Type)
	assert.Contains(notes[0].Channels, notify.Email)
}

func TestSignupRejects(t *testing.T) {
	svc := newAuthService(t, newFakeAuthStore(), &fakeMailer{}, &recordingNotifier{})

	_, err := svc.Signup(context.Background(), SignupInput{Name: "A", Email: "a@example.com", Password: "secret123", Role: "admin"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Signup(context.Background(), SignupInput{Name: "A", Email: "not-an-email", Password: "secret123"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Signup(context.Background(), SignupInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Signup(context.Background(), SignupInput{Name: "B", Email: "A@example.com", Password: "secret123"})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func seedUser(t *testing.T, store *fakeAuthStore, status string) *models.User {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	u := &models.User{
		BaseModel:    models.BaseModel{ID: 1},
		Name:         "Dana",
		Email:        "dana@example.com",
		PasswordHash: hash,
		Role:         types.RoleCandidate,
		Status:       status,
	}
	store.users[u.ID] = u
	return u
}

func TestLogin(t *testing.T) {
	store := newFakeAuthStore()
	user := seedUser(t, store, types.UserStatusActive)
	svc := newAuthService(t, store, &fakeMailer{}, &recordingNotifier{})

	_, err := svc.Login(context.Background(), "dana@example.com", "wrong-pass")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))

	resp, err := svc.Login(context.Background(), "DANA@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, testNow, *user.LastLogin)
}

func TestLoginBlockedUser(t *testing.T) {
	store := newFakeAuthStore()
	seedUser(t, store, types.UserStatusBlocked)
	svc := newAuthService(t, store, &fakeMailer{}, &recordingNotifier{})

	_, err := svc.Login(context.Background(), "dana@example.com", "secret123")
	assert.Equal(t, apperr.Blocked, apperr.KindOf(err))
	assert.Equal(t, "Your account has been blocked.", err.Error())
}

func TestRefresh(t *testing.T) {
	store := newFakeAuthStore()
	seedUser(t, store, types.UserStatusActive)
	svc := newAuthService(t, store, &fakeMailer{}, &recordingNotifier{})

	login, err := svc.Login(context.Background(), "dana@example.com", "secret123")
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.RefreshToken)

	_, err = svc.Refresh(context.Background(), login.Token)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestForgotAndResetPassword(t *testing.T) {
	assert := assert.New(t)

	store := newFakeAuthStore()
	user := seedUser(t, store, types.UserStatusActive)
	mailer := &fakeMailer{}
	svc := newAuthService(t, store, mailer, &recordingNotifier{})

	require.NoError(t, svc.ForgotPassword(context.Background(), "dana@example.com"))
	require.Len(t, mailer.sent, 1)

	const prefix = "http://localhost:5173/reset-password/"
	idx := strings.Index(mailer.sent[0], prefix)
	require.True(t, idx >= 0)
	token := mailer.sent[0][idx+len(prefix):]

	assert.Equal(auth.HashResetToken(token), user.PasswordResetToken)
	assert.Equal(testNow.Add(10*time.Minute), *user.PasswordResetExpires)

	_, err := svc.ResetPassword(context.Background(), "wrong", "newsecret")
	assert.Equal(apperr.Validation, apperr.KindOf(err))

	resp, err := svc.ResetPassword(context.Background(), token, "newsecret")
	require.NoError(t, err)
	assert.NotEmpty(resp.Token)
	assert.Empty(user.PasswordResetToken)
	assert.True(auth.CheckPassword(user.PasswordHash, "newsecret"))
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newAuthService(t, newFakeAuthStore(), &fakeMailer{}, &recordingNotifier{})

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestForgotPasswordMailFailureClearsToken(t *testing.T) {
	store := newFakeAuthStore()
	user := seedUser(t, store, types.UserStatusActive)
	svc := newAuthService(t, store, &fakeMailer{err: errors.New("smtp down")}, &recordingNotifier{})

	err := svc.ForgotPassword(context.Background(), "dana@example.com")
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.Internal, appErr.Kind)
	assert.Equal(t, "Email could not be sent", appErr.PublicMessage())
	assert.Empty(t, user.PasswordResetToken)
	assert.Nil(t, user.PasswordResetExpires)
}
