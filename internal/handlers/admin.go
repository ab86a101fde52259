package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/utils"
)

// AdminHandler serves user management, site content and reports.
type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Users(ctx *gin.Context) {
	page, err := h.admin.Users(ctx.Request.Context(), ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

func (h *AdminHandler) User(ctx *gin.Context) {
	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := h.admin.User(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": services.UserResponse(user)})
}

func (h *AdminHandler) UpdateUser(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	var req services.UserUpdate
	if !utils.BindJSON(ctx, &req) {
		return
	}

	user, err := h.admin.UpdateUser(ctx.Request.Context(), actor, id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": services.UserResponse(user)})
}

func (h *AdminHandler) DeleteUser(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(ctx.Request.Context(), actor, id); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

func (h *AdminHandler) Content(ctx *gin.Context) {
	content, err := h.admin.Content(ctx.Request.Context())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": content})
}

func (h *AdminHandler) UpdateContent(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req services.ContentInput
	if !utils.BindJSON(ctx, &req) {
		return
	}

	content, err := h.admin.UpdateContent(ctx.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": content})
}

func (h *AdminHandler) Stats(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()

	stats, err := h.admin.Stats(reqCtx)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	activity, err := h.admin.Activity(reqCtx)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	growth, err := h.admin.Growth(reqCtx)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"stats":          stats,
			"recentActivity": activity,
			"userGrowth":     growth,
		},
	})
}
