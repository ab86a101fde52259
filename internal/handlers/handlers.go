package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/kriti-labs/jobportal/internal/utils"
)

// currentUser returns the caller set by the auth middleware and answers 401
// when the route was mounted without it.
func currentUser(ctx *gin.Context) (types.AuthenticatedUser, bool) {
	user, err := utils.GetCurrentUser(ctx)
	if err != nil {
		utils.RespondError(ctx, apperr.NewUnauthenticated("Not authorized to access this route"))
		return types.AuthenticatedUser{}, false
	}
	return user, true
}

func respondJobs(ctx *gin.Context, status int, jobs []models.Job) {
	if jobs == nil {
		jobs = []models.Job{}
	}
	ctx.JSON(status, gin.H{"success": true, "count": len(jobs), "data": jobs})
}
