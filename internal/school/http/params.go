package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rahats/school/internal/errors"
)

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid %s", name)
	}
	return id, nil
}
