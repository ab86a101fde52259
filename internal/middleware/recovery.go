package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Recovery turns a panic into the generic 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		log.Errorf("Recovered from panic in %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, recovered)
		utils.RespondError(ctx, apperr.NewInternal("Internal server error"))
	})
}

// NotFound answers unknown routes with the standard envelope.
func NotFound() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		utils.RespondError(ctx, apperr.NewNotFound("Route %s not found", ctx.Request.URL.Path))
	}
}
