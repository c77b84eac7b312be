package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tallyboard/internal/importer"
	"tallyboard/internal/service/excel"
	"tallyboard/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store       *store.Store
	coordinator *importer.Coordinator
}

// NewHandler 创建 V1 API 处理器
func NewHandler(store *store.Store, coordinator *importer.Coordinator) *Handler {
	return &Handler{
		store:       store,
		coordinator: coordinator,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传
	router.POST("/upload", h.Upload)
	router.GET("/imports", h.ListImports)

	// 数据集
	router.GET("/datasets", h.ListDatasets)
	router.GET("/datasets/:id", h.GetDataset)
	router.DELETE("/datasets/:id", h.DeleteDataset)
	router.PUT("/datasets/:id/mapping", h.UpdateMapping)
	router.GET("/datasets/:id/columns", h.GetColumns)
	router.GET("/datasets/:id/health", h.GetHealth)
	router.POST("/datasets/:id/clean", h.CleanDataset)
	router.GET("/datasets/:id/export", h.ExportDataset)

	// 候选列名表
	router.GET("/candidates", h.GetCandidates)
	router.PUT("/candidates", h.UpdateCandidates)

	// 工具
	router.POST("/parse-date", h.ParseDate)
}

// statusFor 错误到 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, excel.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, importer.ErrInvalidMapping),
		errors.Is(err, excel.ErrEmptyFile),
		errors.Is(err, excel.ErrNoDataRows),
		errors.Is(err, excel.ErrBlankHeader),
		errors.Is(err, excel.ErrDuplicateHeader),
		errors.Is(err, excel.ErrUnsupportedFile):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
