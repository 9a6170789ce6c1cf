package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rahats/school/internal/errors"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Page is a parsed offset/limit window.
type Page struct {
	Offset int
	Limit  int
}

// ParsePagination parses the offset and limit query parameters. Offset defaults to 0
// and limit to 50; limit cannot exceed 100. Invalid values wrap ErrInvalidInput.
func ParsePagination(c *gin.Context) (Page, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return Page{}, apperrors.Wrap(apperrors.ErrInvalidInput, "offset must be a non-negative integer")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		return Page{}, apperrors.Wrap(apperrors.ErrInvalidInput, "limit must be between 1 and 100")
	}

	return Page{Offset: offset, Limit: limit}, nil
}
