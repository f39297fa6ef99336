package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"number-cruncher/internal/database"
	"number-cruncher/internal/facts"

	"github.com/gin-gonic/gin"
)

/*
GetAudit handles GET /api/audit
Returns the mirrored fetch log, newest first.
Query params: page (default 1), limit (default 20, max 100), sort (asc|desc),
result (SUCCESS|FAILURE) to filter.
*/
func (h *Handler) GetAudit(c *gin.Context) {
	if h.Audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Audit store is not configured",
		})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	result := strings.ToUpper(c.Query("result"))
	if result != "" && result != string(facts.ResultSuccess) && result != string(facts.ResultFailure) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "result must be SUCCESS or FAILURE",
		})
		return
	}

	records, total, err := h.Audit.List(database.AuditQuery{
		Page:      page,
		Limit:     limit,
		Ascending: strings.ToLower(c.DefaultQuery("sort", "desc")) == "asc",
		Result:    result,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch audit log",
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"entries":    records,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": totalPages,
	})
}
