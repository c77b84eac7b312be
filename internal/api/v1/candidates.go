package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tallyboard/internal/parser"
)

// GetCandidates 生效的候选列名表与运行时扩展
// GET /api/candidates
func (h *Handler) GetCandidates(c *gin.Context) {
	effective, overrides := h.coordinator.Candidates()
	c.JSON(http.StatusOK, gin.H{
		"effective": effective,
		"overrides": overrides,
	})
}

// UpdateCandidates 替换运行时扩展（追加在默认表之后）
// PUT /api/candidates
func (h *Handler) UpdateCandidates(c *gin.Context) {
	var req parser.CandidateTables
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	effective, err := h.coordinator.SetCandidates(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"effective": effective})
}
