package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tallyboard/internal/parser"
)

// ParseDateRequest 日期解析请求
type ParseDateRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time"`
	Zone string `json:"zone"` // IANA 时区名，为空时按 UTC
}

// ParseDate 解析日期与可选时间
// POST /api/parse-date
func (h *Handler) ParseDate(c *gin.Context) {
	var req ParseDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	loc := time.UTC
	if req.Zone != "" {
		l, err := time.LoadLocation(req.Zone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "未知时区: " + req.Zone})
			return
		}
		loc = l
	}

	t, ok := parser.ParseDateTimeIn(loc, req.Date, req.Time)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"datetime": t.Format(time.RFC3339Nano),
		"date":     t.Format("2006-01-02"),
	})
}
