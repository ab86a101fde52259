package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/middleware"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/kriti-labs/jobportal/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	auth      *services.AuthService
	domain    string
	cookieTTL time.Duration
}

func NewAuthHandler(auth *services.AuthService, domain string, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, domain: domain, cookieTTL: cookieTTL}
}

func (h *AuthHandler) setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) respondTokens(ctx *gin.Context, status int, tokens *types.TokenResponse) {
	h.setTokenCookie(ctx, tokens.Token, int(h.cookieTTL.Seconds()))

	body := gin.H{
		"success": true,
		"token":   tokens.Token,
		"user":    tokens.User,
	}
	if tokens.RefreshToken != "" {
		body["refreshToken"] = tokens.RefreshToken
	}

	ctx.JSON(status, body)
}

func (h *AuthHandler) Signup(ctx *gin.Context) {
	var req services.SignupInput
	if !utils.BindJSON(ctx, &req) {
		return
	}

	tokens, err := h.auth.Signup(ctx.Request.Context(), req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	h.respondTokens(ctx, http.StatusCreated, tokens)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	tokens, err := h.auth.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	h.respondTokens(ctx, http.StatusOK, tokens)
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	var req RefreshRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	tokens, err := h.auth.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	h.respondTokens(ctx, http.StatusOK, tokens)
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := h.auth.Me(ctx.Request.Context(), actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": services.UserResponse(user)})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.setTokenCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (h *AuthHandler) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	if err := h.auth.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent"})
}

// ResetPassword accepts the token either as the :token path segment or in the body.
func (h *AuthHandler) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	token := ctx.Param("token")
	if token == "" {
		token = req.Token
	}
	if token == "" {
		utils.RespondError(ctx, apperr.NewValidation("Invalid token"))
		return
	}

	tokens, err := h.auth.ResetPassword(ctx.Request.Context(), token, req.Password)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	h.respondTokens(ctx, http.StatusOK, tokens)
}
