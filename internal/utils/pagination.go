package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamplane/board-api/internal/constants"
)

// PaginationParams is a validated page request.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the paging block attached to list responses.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// GetPaginationParams reads page/limit from the query string, clamping
// out-of-range values back to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page := queryInt(c, "page", constants.MinPageSize)
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}

	limit := queryInt(c, "limit", constants.DefaultPageSize)
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
