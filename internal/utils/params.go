package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// GetIDParam parses a numeric path parameter such as :id or :jobId.
func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New("ID not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, errors.New("Invalid ID")
	}

	return uint(id), nil
}
