package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Healthy             bool    `json:"healthy"`             // 数据库是否可用
	DatasetCount        int     `json:"datasetCount"`        // 数据集数量
	LastImportTime      string  `json:"lastImportTime"`      // 最后上传时间
	MaxFileSize         int64   `json:"maxFileSize"`         // 上传大小上限（字节）
	ConfidenceThreshold float64 `json:"confidenceThreshold"` // 人工映射阈值
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		MaxFileSize:         h.coordinator.MaxFileSize(),
		ConfidenceThreshold: h.coordinator.Threshold(),
	}
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.Healthy = true

	if list, err := h.store.ListDatasets(c.Request.Context()); err == nil {
		resp.DatasetCount = len(list)
	}
	if logs, err := h.store.ListImportLogs(c.Request.Context(), 1); err == nil && len(logs) > 0 {
		resp.LastImportTime = logs[0].CreatedAt
	}
	c.JSON(http.StatusOK, resp)
}
