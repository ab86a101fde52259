package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/utils"
)

type JobHandler struct {
	jobs *services.JobService
}

func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List serves the public job search. Only open jobs with a future deadline are listed.
func (h *JobHandler) List(ctx *gin.Context) {
	page, err := h.jobs.List(ctx.Request.Context(), ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

func (h *JobHandler) Feed(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	page, err := h.jobs.Feed(ctx.Request.Context(), actor, ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

func (h *JobHandler) Mine(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	page, err := h.jobs.Mine(ctx.Request.Context(), actor, ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

func (h *JobHandler) Get(ctx *gin.Context) {
	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	job, err := h.jobs.Get(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": job})
}

func (h *JobHandler) Create(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req services.JobInput
	if !utils.BindJSON(ctx, &req) {
		return
	}

	job, err := h.jobs.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": job})
}

func (h *JobHandler) Update(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	var req services.JobUpdate
	if !utils.BindJSON(ctx, &req) {
		return
	}

	job, err := h.jobs.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": job})
}

func (h *JobHandler) Delete(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.jobs.Delete(ctx.Request.Context(), actor, id); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}
