package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/auth"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/kriti-labs/jobportal/internal/utils"
)

const TokenCookie = "token"

// UserLoader resolves the account behind a verified token.
type UserLoader interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

// BearerToken returns the token from the Authorization header, falling back
// to the auth cookie.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// Identify verifies a token and loads the current state of its user.
// Blocked accounts are refused whatever their role.
func Identify(ctx context.Context, issuer *auth.Issuer, users UserLoader, token string) (types.AuthenticatedUser, error) {
	if token == "" {
		return types.AuthenticatedUser{}, apperr.NewUnauthenticated("Not authorized to access this route")
	}

	claims, err := issuer.VerifyJWT(token)
	if err != nil {
		return types.AuthenticatedUser{}, apperr.NewUnauthenticated("Invalid or expired token")
	}

	user, err := users.UserByID(ctx, claims.UserID)
	if apperr.Is(err, apperr.NotFound) {
		return types.AuthenticatedUser{}, apperr.NewUnauthenticated("User not found")
	}
	if err != nil {
		return types.AuthenticatedUser{}, err
	}

	if user.Status == types.UserStatusBlocked {
		return types.AuthenticatedUser{}, apperr.NewBlocked("Your account has been blocked.")
	}

	return types.AuthenticatedUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}, nil
}

func Authenticate(issuer *auth.Issuer, users UserLoader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := Identify(ctx.Request.Context(), issuer, users, BearerToken(ctx.Request))

		if err != nil {
			utils.RespondError(ctx, err)
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

// Authorize admits the request only when the current user holds one of roles.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utils.GetCurrentUser(ctx)

		if err != nil {
			utils.RespondError(ctx, apperr.NewUnauthenticated("Not authorized to access this route"))
			return
		}

		if !user.HasRole(roles...) {
			utils.RespondError(ctx, apperr.NewForbidden("User role %s is not authorized to access this route", user.Role))
			return
		}

		ctx.Next()
	}
}
