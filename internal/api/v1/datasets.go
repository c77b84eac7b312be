package v1

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"tallyboard/internal/exporter"
	"tallyboard/internal/model"
	"tallyboard/internal/service/health"
)

// ListDatasets 数据集列表（最新在前）
// GET /api/datasets
func (h *Handler) ListDatasets(c *gin.Context) {
	list, err := h.store.ListDatasets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": list})
}

// GetDataset 获取数据集
// GET /api/datasets/:id
func (h *Handler) GetDataset(c *gin.Context) {
	ds, err := h.store.GetDataset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

// DeleteDataset 删除数据集
// DELETE /api/datasets/:id
func (h *Handler) DeleteDataset(c *gin.Context) {
	if err := h.store.DeleteDataset(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateMappingRequest 人工映射请求
type UpdateMappingRequest struct {
	MappedColumns model.Mapping `json:"mappedColumns" binding:"required"`
}

// UpdateMapping 保存人工确认的映射
// PUT /api/datasets/:id/mapping
func (h *Handler) UpdateMapping(c *gin.Context) {
	var req UpdateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	ds, err := h.coordinator.Remap(c.Request.Context(), c.Param("id"), req.MappedColumns)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            ds.ID,
		"mappedColumns": ds.Mapping,
		"healthScore":   ds.HealthScore,
	})
}

// GetColumns 列分配结果
// GET /api/datasets/:id/columns
func (h *Handler) GetColumns(c *gin.Context) {
	cols, err := h.coordinator.Columns(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cols)
}

// GetHealth 数据健康报告
// GET /api/datasets/:id/health
func (h *Handler) GetHealth(c *gin.Context) {
	report, err := h.coordinator.Health(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CleanDataset 清洗数据集
// POST /api/datasets/:id/clean
func (h *Handler) CleanDataset(c *gin.Context) {
	ds, report, err := h.coordinator.Clean(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       ds.ID,
		"rowCount": ds.Table.Len(),
		"isClean":  ds.IsClean,
		"health":   report,
	})
}

// ExportDataset 导出数据集
// GET /api/datasets/:id/export?format=xlsx|csv
func (h *Handler) ExportDataset(c *gin.Context) {
	ds, err := h.store.GetDataset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	base := strings.TrimSuffix(ds.FileName, filepath.Ext(ds.FileName))
	if base == "" {
		base = ds.ID
	}

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		c.Header("Content-Disposition", contentDisposition(base+".csv"))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := exporter.WriteCSV(c.Writer, ds.Table); err != nil {
			log.Printf("export csv %s: %v", ds.ID, err)
		}
	case "xlsx":
		report := health.Analyze(ds.Table, ds.Mapping)
		file, err := exporter.ExportXLSX(ds, &report, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
			return
		}
		defer file.Close()

		c.Header("Content-Disposition", contentDisposition(base+".xlsx"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			log.Printf("export xlsx %s: %v", ds.ID, err)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的导出格式"})
	}
}

// contentDisposition 附件头，filename* 携带 UTF-8 文件名
func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", ascii, url.PathEscape(filename))
}
