package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tallyboard/internal/importer"
	"tallyboard/internal/model"
)

// Upload 上传销售数据 (SSE 流式响应)
// POST /api/upload
//
// 表单字段：file（CSV/XLSX）、businessType（可选）、stream（默认 true，false 时直接返回 JSON 结果）
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	if fileHeader.Size > h.coordinator.MaxFileSize() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("文件超过 %d MB 上限", h.coordinator.MaxFileSize()>>20),
		})
		return
	}

	businessType := model.BusinessType(c.PostForm("businessType"))
	if businessType != "" && !businessType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("未知的业务类型: %s", businessType)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer file.Close()

	progressChan := h.coordinator.Import(c.Request.Context(), importer.ImportOptions{
		FileName:     fileHeader.Filename,
		Reader:       file,
		Size:         fileHeader.Size,
		BusinessType: businessType,
	})

	if stream, err := strconv.ParseBool(c.DefaultPostForm("stream", "true")); err == nil && !stream {
		h.uploadSync(c, progressChan)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	for event := range progressChan {
		if event.Type == importer.EventError {
			event.Data = errorEventData(event.Data)
		}
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// uploadSync 等待上传完成后一次性返回结果
func (h *Handler) uploadSync(c *gin.Context, progressChan <-chan importer.ProgressEvent) {
	var (
		result *importer.ImportResult
		failed *importer.ProgressEvent
	)
	for event := range progressChan {
		switch event.Type {
		case importer.EventDone:
			result, _ = event.Data.(*importer.ImportResult)
		case importer.EventError:
			e := event
			failed = &e
		}
	}

	if failed != nil {
		status := http.StatusInternalServerError
		if err, ok := failed.Data.(error); ok {
			status = statusFor(err)
		}
		c.JSON(status, gin.H{"error": failed.Message})
		return
	}
	if result == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "上传未完成"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// errorEventData 错误事件对外只暴露状态码，原始错误已包含在 Message 中
func errorEventData(data interface{}) interface{} {
	status := http.StatusInternalServerError
	if err, ok := data.(error); ok {
		status = statusFor(err)
	}
	return gin.H{"status": status}
}
