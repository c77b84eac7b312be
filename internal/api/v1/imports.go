package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultImportLogLimit = 50

// ListImports 最近的上传记录
// GET /api/imports?limit=50
func (h *Handler) ListImports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultImportLogLimit)))
	if err != nil || limit <= 0 {
		limit = defaultImportLogLimit
	}
	logs, err := h.store.ListImportLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": logs})
}
