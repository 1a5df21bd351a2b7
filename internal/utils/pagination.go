package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Paginate applies page/per_page query parameters to a list query. If either
// is absent or not a positive integer the query is returned unchanged and the
// full set is served.
func Paginate(c *gin.Context, tx *gorm.DB) *gorm.DB {

	page, pageErr := strconv.Atoi(c.Query("page"))
	perPage, perPageErr := strconv.Atoi(c.Query("per_page"))

	if pageErr != nil || perPageErr != nil || page < 1 || perPage < 1 {
		return tx
	}

	return tx.Offset((page - 1) * perPage).Limit(perPage)
}
