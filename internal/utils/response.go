package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// RespondError renders err as {success:false, message, errors?}. Errors that
// are not classified are logged in full and rendered as a generic 500.
func RespondError(ctx *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Wrap(err, "unclassified error")
	}

	status := appErr.Kind.Status()
	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": ctx.Request.Method,
			"path":   ctx.FullPath(),
		}).Errorf("Request failed: %v", err)
	}

	body := gin.H{"success": false, "message": appErr.PublicMessage()}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}

	ctx.AbortWithStatusJSON(status, body)
}

// BindJSON decodes the request body into req and answers 400 when it is malformed.
func BindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		RespondError(ctx, apperr.NewValidation("Invalid request: %v", err))
		return false
	}
	return true
}

// IDParam parses a numeric path parameter and answers 400 when it is not one.
func IDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := GetIDParam(ctx, name)
	if err != nil {
		RespondError(ctx, apperr.NewValidation("%s", err.Error()))
		return 0, false
	}
	return id, true
}

// PageResponse is the list envelope: data plus pagination totals.
func PageResponse[T any](page query.Page[T]) gin.H {
	items := page.Items
	if items == nil {
		items = []T{}
	}

	return gin.H{
		"success":    true,
		"count":      len(items),
		"data":       items,
		"total":      page.Total,
		"page":       page.Page,
		"limit":      page.Limit,
		"totalPages": page.TotalPages,
	}
}
