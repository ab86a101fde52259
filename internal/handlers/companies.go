package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/utils"
)

type CompanyHandler struct {
	companies *services.CompanyService
}

func NewCompanyHandler(companies *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func (h *CompanyHandler) List(ctx *gin.Context) {
	page, err := h.companies.List(ctx.Request.Context(), ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, utils.PageResponse(page))
}

func (h *CompanyHandler) Get(ctx *gin.Context) {
	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	company, err := h.companies.Get(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": company})
}

// Mine answers with data:null when the caller has no company yet.
func (h *CompanyHandler) Mine(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	company, err := h.companies.Mine(ctx.Request.Context(), actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": company})
}

func (h *CompanyHandler) Create(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req services.CompanyInput
	if !utils.BindJSON(ctx, &req) {
		return
	}

	company, err := h.companies.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": company})
}

func (h *CompanyHandler) Update(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	var req services.CompanyUpdate
	if !utils.BindJSON(ctx, &req) {
		return
	}

	company, err := h.companies.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": company})
}
