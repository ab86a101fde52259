package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/utils"
)

type SaveJobRequest struct {
	JobID uint `json:"jobId" binding:"required"`
}

type CandidateHandler struct {
	candidates *services.CandidateService
}

func NewCandidateHandler(candidates *services.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates}
}

func (h *CandidateHandler) Profile(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	profile, err := h.candidates.Profile(ctx.Request.Context(), actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

func (h *CandidateHandler) UpdateProfile(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req services.ProfileInput
	if !utils.BindJSON(ctx, &req) {
		return
	}

	profile, err := h.candidates.UpdateProfile(ctx.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

func (h *CandidateHandler) AddResume(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req services.ResumeInput
	if !utils.BindJSON(ctx, &req) {
		return
	}

	profile, err := h.candidates.AddResume(ctx.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": profile})
}

func (h *CandidateHandler) RemoveResume(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	resumeID := ctx.Param("resumeId")
	if resumeID == "" {
		utils.RespondError(ctx, apperr.NewValidation("Resume ID is required"))
		return
	}

	profile, err := h.candidates.RemoveResume(ctx.Request.Context(), actor, resumeID)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

func (h *CandidateHandler) SavedJobs(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	jobs, err := h.candidates.SavedJobs(ctx.Request.Context(), actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	respondJobs(ctx, http.StatusOK, jobs)
}

func (h *CandidateHandler) SaveJob(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req SaveJobRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	jobs, err := h.candidates.SaveJob(ctx.Request.Context(), actor, req.JobID)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	respondJobs(ctx, http.StatusOK, jobs)
}

func (h *CandidateHandler) RemoveSavedJob(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	jobID, ok := utils.IDParam(ctx, "jobId")
	if !ok {
		return
	}

	jobs, err := h.candidates.RemoveSavedJob(ctx.Request.Context(), actor, jobID)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	respondJobs(ctx, http.StatusOK, jobs)
}
