package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/auth"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/mcnijman/go-emailaddress"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const resetTokenTTL = 10 * time.Minute

var errNoMailer = errors.New("email delivery is not configured")

type AuthStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error
}

type SignupInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type AuthService struct {
	store     AuthStore
	issuer    *auth.Issuer
	mailer    notify.Mailer
	notifier  Notifier
	clientURL string
	now       func() time.Time
}

func NewAuthService(store AuthStore, issuer *auth.Issuer, mailer notify.Mailer, notifier Notifier, clientURL string) *AuthService {
	return &AuthService{
		store:     store,
		issuer:    issuer,
		mailer:    mailer,
		notifier:  notifier,
		clientURL: strings.TrimSuffix(clientURL, "/"),
		now:       time.Now,
	}
}

// NormalizeEmail validates an address and returns its lower-cased form.
func NormalizeEmail(email string) (string, error) {
	addr, err := emailaddress.Parse(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", apperr.NewFieldValidation("Please provide a valid email", apperr.FieldError{
			Field:   "email",
			Message: "must be a valid email address",
		})
	}
	return addr.String(), nil
}

func UserResponse(u *models.User) types.UserResponse {
	return types.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		AvatarURL: u.AvatarURL,
		LastLogin: u.LastLogin,
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*types.TokenResponse, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	role := types.RoleCandidate
	if in.Role != "" {
		role = strings.ToLower(strings.TrimSpace(in.Role))
	}
	if role != types.RoleCandidate && role != types.RoleEmployer {
		return nil, apperr.NewFieldValidation("Invalid role", apperr.FieldError{
			Field:   "role",
			Message: "must be candidate or employer",
		})
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(err, "unable to hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       types.UserStatusActive,
		Phone:        strings.TrimSpace(in.Phone),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.NotifyUser(user.ID, notify.Payload{
		Type:       types.NotificationWelcome,
		Title:      "Welcome aboard",
		Message:    fmt.Sprintf("Hi %s, your %s account is ready.", user.Name, user.Role),
		EntityType: types.EntityUser,
		EntityID:   uintPtr(user.ID),
		Channels:   []notify.Channel{notify.InApp, notify.Email},
	})

	return s.tokens(user, true)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.NewUnauthenticated("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if user.Status == types.UserStatusBlocked {
		return nil, apperr.NewBlocked("Your account has been blocked.")
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.NewUnauthenticated("Invalid credentials")
	}

	now := s.now()
	if err := s.store.UpdateUser(ctx, user.ID, map[string]interface{}{"last_login": now}); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return s.tokens(user, true)
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, apperr.NewUnauthenticated("No refresh token provided")
	}

	claims, err := s.issuer.VerifyRefreshJWT(refreshToken)
	if err != nil {
		return nil, apperr.NewUnauthenticated("Invalid refresh token")
	}

	user, err := s.store.UserByID(ctx, claims.UserID)
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.NewUnauthenticated("Invalid refresh token")
	}
	if err != nil {
		return nil, err
	}

	if user.Status == types.UserStatusBlocked {
		return nil, apperr.NewBlocked("Your account has been blocked.")
	}

	return s.tokens(user, false)
}

func (s *AuthService) Me(ctx context.Context, actor types.AuthenticatedUser) (*models.User, error) {
	return s.store.UserByID(ctx, actor.ID)
}

// ForgotPassword stores a hashed reset token and emails the raw token as a link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperr.Is(err, apperr.NotFound) {
		return apperr.NewNotFound("There is no user with that email")
	}
	if err != nil {
		return err
	}

	token, hash := auth.NewResetToken()
	expires := s.now().Add(resetTokenTTL)

	err = s.store.UpdateUser(ctx, user.ID, map[string]interface{}{
		"password_reset_token":   hash,
		"password_reset_expires": expires,
	})
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	body := "You are receiving this email because you (or someone else) has requested the reset of a password. " +
		"Open the following link to choose a new password:\n\n" + resetURL

	err = errNoMailer
	if s.mailer != nil {
		err = s.mailer.SendEmail(ctx, user.Email, "Password Reset Token", body)
	}
	if err != nil {
		log.Errorf("Failed to send reset email to user %d: %v", user.ID, err)

		clearErr := s.store.UpdateUser(ctx, user.ID, map[string]interface{}{
			"password_reset_token":   "",
			"password_reset_expires": nil,
		})
		if clearErr != nil {
			log.Errorf("Failed to clear reset token for user %d: %v", user.ID, clearErr)
		}

		return apperr.NewInternal("Email could not be sent")
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*types.TokenResponse, error) {
	if len(password) < 6 {
		return nil, apperr.NewValidation("Password must be at least 6 characters")
	}

	user, err := s.store.UserByResetToken(ctx, auth.HashResetToken(token), s.now())
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.NewValidation("Invalid token")
	}
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(err, "unable to hash password")
	}

	err = s.store.UpdateUser(ctx, user.ID, map[string]interface{}{
		"password_hash":          hash,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	})
	if err != nil {
		return nil, err
	}

	return s.tokens(user, true)
}

func (s *AuthService) tokens(user *models.User, withRefresh bool) (*types.TokenResponse, error) {
	token, err := s.issuer.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Wrap(err, "unable to sign token")
	}

	resp := &types.TokenResponse{Token: token, User: UserResponse(user)}

	if withRefresh {
		resp.RefreshToken, err = s.issuer.GenerateRefreshJWT(user.ID, user.Role)
		if err != nil {
			return nil, apperr.Wrap(err, "unable to sign refresh token")
		}
	}

	return resp, nil
}
