package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/utils"
)

type EmployerHandler struct {
	employer *services.EmployerService
}

func NewEmployerHandler(employer *services.EmployerService) *EmployerHandler {
	return &EmployerHandler{employer: employer}
}

func (h *EmployerHandler) SearchCandidates(ctx *gin.Context) {
	page, err := h.employer.SearchCandidates(ctx.Request.Context(), ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

// Candidate accepts either a profile id or a user id.
func (h *EmployerHandler) Candidate(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	profile, err := h.employer.Candidate(ctx.Request.Context(), actor, id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}
