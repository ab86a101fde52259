package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/utils"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ApplicationHandler struct {
	applications *services.ApplicationService
}

func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

func (h *ApplicationHandler) Apply(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req services.ApplyInput
	if !utils.BindJSON(ctx, &req) {
		return
	}

	application, err := h.applications.Apply(ctx.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": application})
}

// Check reports whether the caller already applied to :jobId.
func (h *ApplicationHandler) Check(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	jobID, ok := utils.IDParam(ctx, "jobId")
	if !ok {
		return
	}

	application, err := h.applications.Check(ctx.Request.Context(), actor, jobID)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"applied":     application != nil,
		"application": application,
	})
}

func (h *ApplicationHandler) Mine(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	page, err := h.applications.Mine(ctx.Request.Context(), actor, ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

func (h *ApplicationHandler) ForJob(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	jobID, ok := utils.IDParam(ctx, "jobId")
	if !ok {
		return
	}

	page, err := h.applications.ForJob(ctx.Request.Context(), actor, jobID, ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

func (h *ApplicationHandler) ForEmployer(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	page, err := h.applications.ForEmployer(ctx.Request.Context(), actor, ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

func (h *ApplicationHandler) UpdateStatus(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	application, err := h.applications.UpdateStatus(ctx.Request.Context(), actor, id, req.Status)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": application})
}
